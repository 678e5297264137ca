package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
)

// TieResult is stored in MatchResult.Winner and MatchResult.Loser for a tied match.
const TieResult = "Tie"

var ErrUnknownMatchStatus = errors.New("unknown match status")

// MatchState is a closed set: Scheduled, Live and Completed.
// Only Completed carries a result.
type MatchState interface {
	Status() MatchStatus
	isMatchState()
}

type Scheduled struct{}

type Live struct{}

type Completed struct {
	Result MatchResult
}

func (Scheduled) Status() MatchStatus { return StatusScheduled }
func (Live) Status() MatchStatus      { return StatusLive }
func (Completed) Status() MatchStatus { return StatusCompleted }

func (Scheduled) isMatchState() {}
func (Live) isMatchState()      {}
func (Completed) isMatchState() {}

type MatchResult struct {
	Winner           string  `json:"winner"`
	Loser            string  `json:"loser"`
	WinningTeamScore string  `json:"winning_team_score"`
	LosingTeamScore  string  `json:"losing_team_score"`
	WinMargin        string  `json:"win_margin"`
	PlayerOfMatch    string  `json:"player_of_match,omitempty"`
	WinningTeamOvers float64 `json:"winning_team_overs_faced"`
	LosingTeamOvers  float64 `json:"losing_team_overs_faced"`
	// NRR is the single-match display hint; standings use the full-history recompute.
	NRR float64 `json:"nrr"`
}

func (r MatchResult) IsTie() bool {
	return r.Winner == TieResult
}

type Match struct {
	ID      string     `json:"match_id"`
	Number  int        `json:"match_number"`
	Team1   string     `json:"team1"`
	Team2   string     `json:"team2"`
	Date    string     `json:"date"`
	Time    string     `json:"time"`
	Venue   string     `json:"venue"`
	IsFinal bool       `json:"is_final,omitempty"`
	State   MatchState `json:"-"`
}

func (m Match) Status() MatchStatus {
	if m.State == nil {
		return StatusScheduled
	}
	return m.State.Status()
}

// Result returns the result of a completed match.
func (m Match) Result() (MatchResult, bool) {
	c, ok := m.State.(Completed)
	if !ok {
		return MatchResult{}, false
	}
	return c.Result, true
}

func (m Match) IsCompleted() bool {
	_, ok := m.State.(Completed)
	return ok
}

func (m Match) Involves(teamID string) bool {
	return m.Team1 == teamID || m.Team2 == teamID
}

// Opponent returns the other side of the fixture, or "" when teamID did not play.
func (m Match) Opponent(teamID string) string {
	switch teamID {
	case m.Team1:
		return m.Team2
	case m.Team2:
		return m.Team1
	}
	return ""
}

func StateFor(status MatchStatus, result *MatchResult) (MatchState, error) {
	switch status {
	case StatusScheduled, "":
		if result != nil {
			return nil, fmt.Errorf("scheduled match cannot carry a result")
		}
		return Scheduled{}, nil
	case StatusLive:
		if result != nil {
			return nil, fmt.Errorf("live match cannot carry a result")
		}
		return Live{}, nil
	case StatusCompleted:
		if result == nil {
			return nil, fmt.Errorf("completed match requires a result")
		}
		return Completed{Result: *result}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMatchStatus, status)
}

type matchJSON struct {
	matchAlias
	Status MatchStatus  `json:"status"`
	Result *MatchResult `json:"result,omitempty"`
}

type matchAlias Match

func (m Match) MarshalJSON() ([]byte, error) {
	out := matchJSON{matchAlias: matchAlias(m), Status: m.Status()}
	if r, ok := m.Result(); ok {
		out.Result = &r
	}
	return json.Marshal(out)
}

func (m *Match) UnmarshalJSON(data []byte) error {
	var in matchJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	state, err := StateFor(in.Status, in.Result)
	if err != nil {
		return fmt.Errorf("match %s: %w", in.ID, err)
	}
	*m = Match(in.matchAlias)
	m.State = state
	return nil
}
