package models

import "time"

// TeamStats is one row of the points table.
type TeamStats struct {
	TeamID  string  `json:"team_id" db:"team_id"`
	Played  int     `json:"played" db:"played"`
	Won     int     `json:"won" db:"won"`
	Lost    int     `json:"lost" db:"lost"`
	Points  int     `json:"points" db:"points"`
	NRR     float64 `json:"nrr" db:"nrr"`
	Rank    int     `json:"rank,omitempty" db:"rank"`
	// LastFiveResults holds the most recent decided results, oldest first; true is a win.
	LastFiveResults []bool     `json:"last_five_results" db:"last_five"`
	// UpdatedAt is set only on rows read back from storage.
	UpdatedAt       *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Clone returns a copy that shares no memory with s.
func (s TeamStats) Clone() TeamStats {
	out := s
	if s.LastFiveResults != nil {
		out.LastFiveResults = append(make([]bool, 0, len(s.LastFiveResults)), s.LastFiveResults...)
	}
	if s.UpdatedAt != nil {
		at := *s.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

func NewTeamStats(teamID string) TeamStats {
	return TeamStats{TeamID: teamID, LastFiveResults: []bool{}}
}
