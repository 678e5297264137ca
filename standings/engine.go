package standings

import (
	"fmt"
	"sort"

	"github.com/Dosada05/cricket-league/models"
)

// ApplyCompletedMatch credits the result of match to the two teams involved,
// recomputes every team's NRR over the match history and returns the re-sorted
// table. matches may hold match in its pre-completion state; it is replaced by
// ID before NRR is computed. standings and matches are left untouched.
func (r Rules) ApplyCompletedMatch(standings []models.TeamStats, matches []models.Match, match models.Match) ([]models.TeamStats, error) {
	res, ok := match.Result()
	if !ok {
		return nil, fmt.Errorf("%w: match %s is %s", ErrInvalidMatchState, match.ID, match.Status())
	}
	if match.Team1 == "" || match.Team1 == match.Team2 {
		return nil, fmt.Errorf("%w: match %s has invalid teams %q and %q", ErrInvalidMatchState, match.ID, match.Team1, match.Team2)
	}

	out := make([]models.TeamStats, len(standings))
	index := make(map[string]int, len(standings))
	for i, s := range standings {
		out[i] = s.Clone()
		index[s.TeamID] = i
	}
	for _, id := range []string{match.Team1, match.Team2} {
		if _, ok := index[id]; !ok {
			return nil, fmt.Errorf("%w: %s (match %s)", ErrUnknownTeam, id, match.ID)
		}
	}

	if res.IsTie() {
		for _, id := range []string{match.Team1, match.Team2} {
			s := &out[index[id]]
			s.Played++
			s.Points += PointsForTie
		}
	} else {
		loser := match.Opponent(res.Winner)
		if loser == "" {
			return nil, fmt.Errorf("%w: winner %q did not play match %s", ErrInvalidMatchState, res.Winner, match.ID)
		}
		w := &out[index[res.Winner]]
		w.Played++
		w.Won++
		w.Points += PointsForWin
		w.LastFiveResults = pushForm(w.LastFiveResults, true)

		l := &out[index[loser]]
		l.Played++
		l.Lost++
		l.LastFiveResults = pushForm(l.LastFiveResults, false)
	}

	history := withMatch(matches, match)
	for i := range out {
		out[i].NRR = r.ComputeTeamNRR(out[i].TeamID, history)
	}
	Sort(out)
	return out, nil
}

// Apply returns a copy of t with match recorded, the table updated and each
// team's NRR snapshot synchronised with its standings row.
func (r Rules) Apply(t models.Tournament, match models.Match) (models.Tournament, error) {
	table, err := r.ApplyCompletedMatch(t.Standings, t.Matches, match)
	if err != nil {
		return models.Tournament{}, err
	}

	nrr := make(map[string]float64, len(table))
	for _, s := range table {
		nrr[s.TeamID] = s.NRR
	}
	teams := make([]models.Team, len(t.Teams))
	for i, team := range t.Teams {
		teams[i] = team
		teams[i].Players = append([]string(nil), team.Players...)
		if v, ok := nrr[team.ID]; ok {
			teams[i].NRR = v
		}
	}

	return models.Tournament{
		ID:        t.ID,
		Name:      t.Name,
		Teams:     teams,
		Matches:   withMatch(t.Matches, match),
		Standings: table,
	}, nil
}

// Rebuild computes the table from nothing by replaying every completed match
// in match-number order.
func (r Rules) Rebuild(teamIDs []string, matches []models.Match) ([]models.TeamStats, error) {
	table := make([]models.TeamStats, 0, len(teamIDs))
	for _, id := range teamIDs {
		table = append(table, models.NewTeamStats(id))
	}
	Sort(table)

	completed := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.IsCompleted() {
			completed = append(completed, m)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Number < completed[j].Number
	})

	var err error
	for i, m := range completed {
		table, err = r.ApplyCompletedMatch(table, completed[:i], m)
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

func withMatch(matches []models.Match, match models.Match) []models.Match {
	out := make([]models.Match, 0, len(matches)+1)
	replaced := false
	for _, m := range matches {
		if m.ID == match.ID {
			out = append(out, match)
			replaced = true
			continue
		}
		out = append(out, m)
	}
	if !replaced {
		out = append(out, match)
	}
	return out
}

func pushForm(form []bool, won bool) []bool {
	form = append(form, won)
	if len(form) > RecentFormSize {
		form = form[len(form)-RecentFormSize:]
	}
	return form
}
