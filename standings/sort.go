package standings

import (
	"sort"

	"github.com/Dosada05/cricket-league/models"
)

// Sort orders the table by points, then NRR, both descending, and numbers the
// ranks from 1. Rows level on both keep their previous relative order.
func Sort(table []models.TeamStats) {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		return table[i].NRR > table[j].NRR
	})
	for i := range table {
		table[i].Rank = i + 1
	}
}

// IsSorted reports whether every adjacent pair satisfies the table order.
func IsSorted(table []models.TeamStats) bool {
	for i := 1; i < len(table); i++ {
		a, b := table[i-1], table[i]
		if a.Points < b.Points || (a.Points == b.Points && a.NRR < b.NRR) {
			return false
		}
	}
	return true
}
