package standings

import (
	"math"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/scoring"
)

// innings is one side's batting in a completed match, after the all-out adjustment.
type innings struct {
	runs  float64
	overs float64
}

type nrrTotals struct {
	runsScored   float64
	oversFaced   float64
	runsConceded float64
	oversBowled  float64
}

func (t *nrrTotals) bat(i innings) {
	t.runsScored += i.runs
	t.oversFaced += i.overs
}

func (t *nrrTotals) bowl(i innings) {
	t.runsConceded += i.runs
	t.oversBowled += i.overs
}

func (t nrrTotals) value() float64 {
	if t.oversFaced == 0 || t.oversBowled == 0 {
		return 0
	}
	return round3(t.runsScored/t.oversFaced - t.runsConceded/t.oversBowled)
}

// ComputeTeamNRR walks every completed match of teamID and returns
// (runs scored / overs faced) - (runs conceded / overs bowled), rounded to three
// decimals. It returns 0 when the team has not faced or bowled a ball.
func (r Rules) ComputeTeamNRR(teamID string, matches []models.Match) float64 {
	var totals nrrTotals
	for _, m := range matches {
		res, ok := m.Result()
		if !ok || !m.Involves(teamID) {
			continue
		}
		winning := r.innings(res.WinningTeamScore, res.WinningTeamOvers)
		losing := r.innings(res.LosingTeamScore, res.LosingTeamOvers)

		switch {
		case res.IsTie():
			// Team1 is recorded in the winning fields of a tie, team2 in the losing ones.
			own := losing
			if m.Team1 == teamID {
				own = winning
			}
			totals.bat(own)
			totals.bowl(own)
		case res.Winner == teamID:
			totals.bat(winning)
			totals.bowl(losing)
		default:
			totals.bat(losing)
			totals.bowl(winning)
		}
	}
	return totals.value()
}

func (r Rules) innings(score string, overs float64) innings {
	s, err := scoring.ParseScore(score)
	if err != nil {
		s = scoring.Score{}
	}
	if r.IsAllOut(s.Wickets) {
		overs = r.AllottedOvers
	}
	return innings{runs: float64(s.Runs), overs: overs}
}

// MatchNRR is the single-match rate difference from the winner's side, shown
// next to a result. It applies no all-out adjustment and is not used for ranking.
func MatchNRR(res models.MatchResult) float64 {
	winning, err := scoring.ParseScore(res.WinningTeamScore)
	if err != nil {
		return 0
	}
	losing, err := scoring.ParseScore(res.LosingTeamScore)
	if err != nil {
		return 0
	}
	if res.WinningTeamOvers == 0 || res.LosingTeamOvers == 0 {
		return 0
	}
	return round3(float64(winning.Runs)/res.WinningTeamOvers - float64(losing.Runs)/res.LosingTeamOvers)
}

// round3 rounds half away from zero.
func round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0
	}
	return r
}
