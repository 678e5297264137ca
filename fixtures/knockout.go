package fixtures

import (
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/standings"
)

var ErrInvalidQualifiers = errors.New("qualifier count must be a power of two")

// Knockout seeds the top qualifiers of a points table into the first knockout
// round: first against last, second against second-to-last, and so on. With
// two qualifiers the single match is the final.
//
// The table is re-sorted first, so it may be passed in any order.
func Knockout(table []models.TeamStats, qualifiers int, opts Options) ([]models.Match, error) {
	if qualifiers < 2 || qualifiers&(qualifiers-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQualifiers, qualifiers)
	}
	if len(table) < qualifiers {
		return nil, fmt.Errorf("%w: %d qualifiers from %d teams", ErrNotEnoughTeams, qualifiers, len(table))
	}

	ranked := make([]models.TeamStats, len(table))
	copy(ranked, table)
	standings.Sort(ranked)

	pairs := make([][2]string, 0, qualifiers/2)
	for i := 0; i < qualifiers/2; i++ {
		pairs = append(pairs, [2]string{ranked[i].TeamID, ranked[qualifiers-1-i].TeamID})
	}
	return schedule(pairs, opts, qualifiers == 2), nil
}
