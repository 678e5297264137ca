package fixtures

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/cricket-league/models"
)

const (
	DateLayout  = "2006-01-02"
	defaultTime = "19:30"
)

var (
	ErrNotEnoughTeams = errors.New("round robin needs at least two teams")
	ErrDuplicateTeam  = errors.New("duplicate team in round robin")
)

type Options struct {
	// Double plays every pairing twice, the second leg with sides swapped.
	Double bool
	// Start is the date of the first match.
	Start time.Time
	// Times lists the start times used on each match day; its length is the
	// number of matches per day. Defaults to a single 19:30 slot.
	Times []string
	Venue string
	// FirstNumber is the number given to the first generated match. Defaults to 1.
	FirstNumber int
}

// RoundRobin schedules every team against every other team using the circle
// method, so each round has every team playing at most once. Matches are
// numbered sequentially with IDs m<N>.
func RoundRobin(teamIDs []string, opts Options) ([]models.Match, error) {
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teamIDs))
	}
	seen := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		if id == "" || seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTeam, id)
		}
		seen[id] = true
	}

	pairs := circlePairs(teamIDs)
	if opts.Double {
		for _, p := range pairs[:len(pairs):len(pairs)] {
			pairs = append(pairs, [2]string{p[1], p[0]})
		}
	}
	return schedule(pairs, opts, false), nil
}

// schedule turns pairings into numbered scheduled matches, len(opts.Times)
// matches per day.
func schedule(pairs [][2]string, opts Options, final bool) []models.Match {
	times := opts.Times
	if len(times) == 0 {
		times = []string{defaultTime}
	}
	number := opts.FirstNumber
	if number <= 0 {
		number = 1
	}

	matches := make([]models.Match, 0, len(pairs))
	for i, p := range pairs {
		day := opts.Start.AddDate(0, 0, i/len(times))
		matches = append(matches, models.Match{
			ID:      fmt.Sprintf("m%d", number),
			Number:  number,
			Team1:   p[0],
			Team2:   p[1],
			Date:    day.Format(DateLayout),
			Time:    times[i%len(times)],
			Venue:   opts.Venue,
			IsFinal: final,
			State:   models.Scheduled{},
		})
		number++
	}
	return matches
}

func circlePairs(teamIDs []string) [][2]string {
	ring := append([]string(nil), teamIDs...)
	if len(ring)%2 == 1 {
		ring = append(ring, "") // bye
	}
	n := len(ring)

	pairs := make([][2]string, 0, n*(n-1)/2)
	for round := 0; round < n-1; round++ {
		for i := 0; i < n/2; i++ {
			home, away := ring[i], ring[n-1-i]
			if home == "" || away == "" {
				continue
			}
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, [2]string{home, away})
		}
		// ring[0] stays put, the rest rotate one step clockwise.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return pairs
}
