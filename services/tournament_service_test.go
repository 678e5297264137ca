package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/standings"
)

func completed(winner, loser string) models.Completed {
	return models.Completed{Result: models.MatchResult{
		Winner:           winner,
		Loser:            loser,
		WinningTeamScore: "60/2",
		LosingTeamScore:  "48/5",
		WinMargin:        "12 runs",
		WinningTeamOvers: 6,
		LosingTeamOvers:  6,
	}}
}

func leagueSeed() models.Tournament {
	logo := "logos/a.png"
	return models.Tournament{
		ID:   "t1",
		Name: "Midtown Premier League",
		Teams: []models.Team{
			{ID: "a", Name: "Avengers", LogoKey: &logo, Players: []string{"Asha", "Arun"}},
			{ID: "b", Name: "Blasters"},
			{ID: "c", Name: "Chargers"},
		},
		Matches: []models.Match{
			{ID: "m1", Number: 1, Team1: "a", Team2: "b", Date: "2025-04-06", Time: "19:30", State: completed("a", "b")},
			{ID: "m2", Number: 2, Team1: "b", Team2: "c", Date: "2025-04-06", Time: "21:00", State: completed("c", "b")},
			{ID: "m3", Number: 3, Team1: "a", Team2: "c", Date: "2025-04-07", Time: "19:30", State: completed("a", "c")},
			{ID: "m4", Number: 4, Team1: "b", Team2: "a", Date: "2025-04-09", Time: "19:30", State: models.Scheduled{}},
			{ID: "m5", Number: 5, Team1: "c", Team2: "b", Date: "2025-04-08", Time: "21:00", State: models.Live{}},
			{ID: "m6", Number: 6, Team1: "c", Team2: "a", Date: "2025-04-08", Time: "15:30", State: models.Scheduled{}},
		},
	}
}

func seededService(t *testing.T) (*TournamentService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewTournamentService(store, store, store, standings.DefaultRules(), &fakeUploader{baseURL: "https://cdn.example"}, discardLogger())
	created, err := svc.EnsureSeeded(context.Background(), leagueSeed())
	require.NoError(t, err)
	require.True(t, created)
	return svc, store
}

func TestEnsureSeeded_OnlyOnce(t *testing.T) {
	svc, store := seededService(t)

	created, err := svc.EnsureSeeded(context.Background(), leagueSeed())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, store.txCount)
}

func TestEnsureSeeded_RebuildsTableAndNRR(t *testing.T) {
	svc, store := seededService(t)

	table, err := svc.ListStandings(context.Background(), "t1")
	require.NoError(t, err)

	want, err := standings.DefaultRules().Rebuild([]string{"a", "b", "c"}, leagueSeed().Matches)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, table))

	assert.Equal(t, "a", table[0].TeamID)
	assert.Equal(t, 4, table[0].Points)
	for _, row := range table {
		assert.Equal(t, row.NRR, store.team("t1", row.TeamID).NRR, row.TeamID)
	}
}

func TestEnsureSeeded_InvalidSeed(t *testing.T) {
	store := newFakeStore()
	svc := NewTournamentService(store, store, store, standings.DefaultRules(), nil, discardLogger())

	_, err := svc.EnsureSeeded(context.Background(), models.Tournament{})
	assert.ErrorIs(t, err, ErrInvalidSeed)

	bad := leagueSeed()
	bad.Matches[0].Team2 = "zz"
	bad.Matches[0].State = completed("a", "zz")
	_, err = svc.EnsureSeeded(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidSeed)
	assert.Empty(t, store.tournaments)
}

func TestGetTournament_FillsLogoURLs(t *testing.T) {
	svc, _ := seededService(t)

	tour, err := svc.GetTournament(context.Background(), "t1")
	require.NoError(t, err)
	require.NotNil(t, tour.Teams[0].LogoURL)
	assert.Equal(t, "https://cdn.example/logos/a.png", *tour.Teams[0].LogoURL)
	assert.Nil(t, tour.Teams[1].LogoURL)
	assert.Len(t, tour.Standings, 3)

	_, err = svc.GetTournament(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGetTeamAndStats(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	team, err := svc.GetTeam(ctx, "t1", "a")
	require.NoError(t, err)
	assert.Equal(t, "Avengers", team.Name)
	assert.Equal(t, []string{"Asha", "Arun"}, team.Players)

	stats, err := svc.GetTeamStats(ctx, "t1", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Played)
	assert.Equal(t, 2, stats.Lost)
	assert.Equal(t, []bool{false, false}, stats.LastFiveResults)

	_, err = svc.GetTeam(ctx, "t1", "zz")
	assert.ErrorIs(t, err, ErrTeamNotFound)
	_, err = svc.GetTeamStats(ctx, "t1", "zz")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestListUpcomingMatches(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	all, err := svc.ListUpcomingMatches(ctx, "t1", 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, m := range all {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m6", "m4"}, ids)

	one, err := svc.ListUpcomingMatches(ctx, "t1", 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "m6", one[0].ID)
}

func TestListResultsByDate(t *testing.T) {
	svc, _ := seededService(t)

	days, err := svc.ListResultsByDate(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, "2025-04-07", days[0].Date)
	require.Len(t, days[0].Matches, 1)
	assert.Equal(t, "m3", days[0].Matches[0].ID)

	assert.Equal(t, "2025-04-06", days[1].Date)
	require.Len(t, days[1].Matches, 2)
	assert.Equal(t, "m1", days[1].Matches[0].ID)
	assert.Equal(t, "m2", days[1].Matches[1].ID)
}

func TestSnapshot(t *testing.T) {
	svc, _ := seededService(t)
	fixed := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	snap, err := svc.Snapshot(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", snap.TournamentID)
	assert.Equal(t, fixed, snap.PublishedAt)
	assert.Nil(t, snap.LastMatch)
	assert.Len(t, snap.Standings, 3)
}

func TestLoadRebuildsIncompleteTable(t *testing.T) {
	svc, store := seededService(t)
	store.standings["t1"] = store.standings["t1"][:1]

	table, err := svc.ListStandings(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, table, 3)
	assert.True(t, standings.IsSorted(table))
}
