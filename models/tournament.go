package models

// Tournament is the state container for one league: reference data, the fixture
// list and the current points table.
type Tournament struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Teams     []Team      `json:"teams" db:"-"`
	Matches   []Match     `json:"matches" db:"-"`
	Standings []TeamStats `json:"standings" db:"-"`
}

func (t *Tournament) Team(id string) (Team, bool) {
	for _, team := range t.Teams {
		if team.ID == id {
			return team, true
		}
	}
	return Team{}, false
}

func (t *Tournament) Match(id string) (Match, bool) {
	for _, m := range t.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return Match{}, false
}

func (t *Tournament) Stats(teamID string) (TeamStats, bool) {
	for _, s := range t.Standings {
		if s.TeamID == teamID {
			return s, true
		}
	}
	return TeamStats{}, false
}

func (t *Tournament) TeamIDs() []string {
	ids := make([]string, 0, len(t.Teams))
	for _, team := range t.Teams {
		ids = append(ids, team.ID)
	}
	return ids
}
