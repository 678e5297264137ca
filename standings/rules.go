// Package standings derives the points table from match results.
//
// Every function here is pure: inputs are never modified and nothing is kept
// between calls. Net Run Rate is always recomputed from the whole completed
// match history rather than summed from per-match deltas.
package standings

import (
	"errors"
	"fmt"
)

const (
	PointsForWin = 2
	PointsForTie = 1

	// RecentFormSize is how many decided results TeamStats.LastFiveResults keeps.
	RecentFormSize = 5

	DefaultAllottedOvers = 6.0
	DefaultAllOutWickets = 6
)

var (
	ErrInvalidMatchState = errors.New("match is not completed with a result")
	ErrUnknownTeam       = errors.New("team has no standings entry")
	ErrInvalidRules      = errors.New("invalid standings rules")
)

// Rules describe the match format the table is computed for.
type Rules struct {
	// AllottedOvers is credited as overs faced to a side that is bowled out.
	AllottedOvers float64
	// AllOutWickets is the wicket count that ends an innings.
	AllOutWickets int
}

// DefaultRules is the six-a-side, six-over format.
func DefaultRules() Rules {
	return Rules{AllottedOvers: DefaultAllottedOvers, AllOutWickets: DefaultAllOutWickets}
}

func (r Rules) Validate() error {
	if r.AllottedOvers <= 0 {
		return fmt.Errorf("%w: allotted overs must be positive, got %v", ErrInvalidRules, r.AllottedOvers)
	}
	if r.AllOutWickets <= 0 {
		return fmt.Errorf("%w: all-out wickets must be positive, got %d", ErrInvalidRules, r.AllOutWickets)
	}
	return nil
}

// IsAllOut reports whether an innings that lost wickets was bowled out.
func (r Rules) IsAllOut(wickets int) bool {
	return wickets >= r.AllOutWickets
}
