package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/scoring"
	"github.com/Dosada05/cricket-league/services"
)

type fakeReader struct {
	tournament *models.Tournament
	lastCount  int
}

func (f *fakeReader) GetTournament(_ context.Context, id string) (*models.Tournament, error) {
	if id != f.tournament.ID {
		return nil, services.ErrTournamentNotFound
	}
	return f.tournament, nil
}

func (f *fakeReader) GetTeam(ctx context.Context, tournamentID, teamID string) (*models.Team, error) {
	t, err := f.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	team, ok := t.Team(teamID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrTeamNotFound, teamID)
	}
	return &team, nil
}

func (f *fakeReader) GetTeamStats(ctx context.Context, tournamentID, teamID string) (*models.TeamStats, error) {
	t, err := f.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	s, ok := t.Stats(teamID)
	if !ok {
		return nil, services.ErrTeamNotFound
	}
	return &s, nil
}

func (f *fakeReader) ListStandings(ctx context.Context, tournamentID string) ([]models.TeamStats, error) {
	t, err := f.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return t.Standings, nil
}

func (f *fakeReader) ListUpcomingMatches(ctx context.Context, tournamentID string, count int) ([]models.Match, error) {
	f.lastCount = count
	t, err := f.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return t.Matches, nil
}

func (f *fakeReader) ListResultsByDate(ctx context.Context, tournamentID string) ([]services.ResultDay, error) {
	if _, err := f.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return []services.ResultDay{}, nil
}

type fakeSubmitter struct {
	err   error
	input services.SubmitResultInput
}

func (f *fakeSubmitter) SubmitResult(_ context.Context, tournamentID, matchID string, input services.SubmitResultInput) (*services.SubmitResultOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &services.SubmitResultOutput{
		Match: models.Match{ID: matchID, Team1: "a", Team2: "b", State: models.Completed{Result: models.MatchResult{
			Winner: input.Winner, Loser: "b", WinningTeamScore: input.WinningTeamScore, LosingTeamScore: input.LosingTeamScore,
		}}},
		Standings: []models.TeamStats{{TeamID: "a", Played: 1, Won: 1, Points: 2, Rank: 1, LastFiveResults: []bool{true}}},
	}, nil
}

type fakeAuth struct{}

func (fakeAuth) LoginScorer(_ context.Context, pin string) (*services.ScorerToken, error) {
	switch pin {
	case "2255":
		return &services.ScorerToken{Token: "signed", ExpiresAt: time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)}, nil
	case "off":
		return nil, services.ErrScorerLoginDisabled
	}
	return nil, services.ErrAuthInvalidCredentials
}

func testTournament() *models.Tournament {
	return &models.Tournament{
		ID:    "t1",
		Name:  "Midtown Premier League",
		Teams: []models.Team{{ID: "a", Name: "Avengers"}, {ID: "b", Name: "Blasters"}},
		Matches: []models.Match{
			{ID: "m2", Number: 2, Team1: "a", Team2: "b", Date: "2025-04-07", Time: "19:30", State: models.Scheduled{}},
		},
		Standings: []models.TeamStats{
			{TeamID: "a", Rank: 1, LastFiveResults: []bool{}},
			{TeamID: "b", Rank: 2, LastFiveResults: []bool{}},
		},
	}
}

func newTestRouter(reader TournamentReader, submitter ResultSubmitter) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	th := NewTournamentHandler(reader)
	mh := NewMatchHandler(submitter, logger)
	ah := NewAuthHandler(fakeAuth{})

	r := chi.NewRouter()
	r.Post("/auth/scorer", ah.ScorerLogin)
	r.Get("/tournaments/{tournamentID}", th.GetByIDHandler)
	r.Get("/tournaments/{tournamentID}/standings", th.StandingsHandler)
	r.Get("/tournaments/{tournamentID}/teams/{teamID}", th.TeamHandler)
	r.Get("/tournaments/{tournamentID}/teams/{teamID}/stats", th.TeamStatsHandler)
	r.Get("/tournaments/{tournamentID}/matches/upcoming", th.UpcomingMatchesHandler)
	r.Get("/tournaments/{tournamentID}/matches/results", th.ResultsHandler)
	r.Post("/tournaments/{tournamentID}/matches/{matchID}/result", mh.SubmitResultHandler)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, reader))

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestReadEndpoints(t *testing.T) {
	router := newTestRouter(&fakeReader{tournament: testTournament()}, &fakeSubmitter{})

	tests := []struct {
		name string
		path string
		code int
		key  string
	}{
		{"tournament", "/tournaments/t1", http.StatusOK, "tournament"},
		{"unknown tournament", "/tournaments/t9", http.StatusNotFound, "error"},
		{"standings", "/tournaments/t1/standings", http.StatusOK, "standings"},
		{"team", "/tournaments/t1/teams/a", http.StatusOK, "team"},
		{"unknown team", "/tournaments/t1/teams/zz", http.StatusNotFound, "error"},
		{"team stats", "/tournaments/t1/teams/b/stats", http.StatusOK, "stats"},
		{"upcoming", "/tournaments/t1/matches/upcoming?count=3", http.StatusOK, "matches"},
		{"bad count", "/tournaments/t1/matches/upcoming?count=-1", http.StatusBadRequest, "error"},
		{"results", "/tournaments/t1/matches/results", http.StatusOK, "days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, body, tt.key)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestUpcomingPassesCount(t *testing.T) {
	reader := &fakeReader{tournament: testTournament()}
	router := newTestRouter(reader, &fakeSubmitter{})

	rec, body := do(t, router, http.MethodGet, "/tournaments/t1/matches/upcoming?count=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, reader.lastCount)

	matches := body["matches"].([]interface{})
	first := matches[0].(map[string]interface{})
	assert.Equal(t, "m2", first["match_id"])
	assert.Equal(t, "scheduled", first["status"])
	assert.NotContains(t, first, "result")
}

func TestSubmitResultHandler(t *testing.T) {
	submitter := &fakeSubmitter{}
	router := newTestRouter(&fakeReader{tournament: testTournament()}, submitter)

	rec, body := do(t, router, http.MethodPost, "/tournaments/t1/matches/m1/result", `{
		"winner": "a",
		"winning_team_score": "120/3",
		"losing_team_score": "90/6",
		"win_margin": "30 runs",
		"winning_team_overs_faced": "6",
		"losing_team_overs_faced": "4.2"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "4.2", submitter.input.LosingTeamOvers)

	match := body["match"].(map[string]interface{})
	assert.Equal(t, "completed", match["status"])
	result := match["result"].(map[string]interface{})
	assert.Equal(t, "a", result["winner"])
	assert.Len(t, body["standings"], 1)
}

func TestSubmitResultHandler_Errors(t *testing.T) {
	parseErr := fmt.Errorf("%w: winning_team_score: %w", services.ErrInvalidScore,
		&scoring.ParseError{Field: "runs", Input: "abc", Err: scoring.ErrEmpty})

	tests := []struct {
		name string
		err  error
		body string
		code int
	}{
		{"malformed json", nil, `{"winner":`, http.StatusBadRequest},
		{"unknown field", nil, `{"winnner":"a"}`, http.StatusBadRequest},
		{"empty body", nil, ``, http.StatusBadRequest},
		{"parse error", parseErr, `{"winner":"a"}`, http.StatusBadRequest},
		{"validation", services.ErrValidationFailed, `{"winner":"a"}`, http.StatusBadRequest},
		{"already completed", services.ErrMatchAlreadyCompleted, `{"winner":"a"}`, http.StatusConflict},
		{"unknown match", services.ErrMatchNotFound, `{"winner":"a"}`, http.StatusNotFound},
		{"storage failure", fmt.Errorf("save standings: %w", io.ErrClosedPipe), `{"winner":"a"}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeReader{tournament: testTournament()}, &fakeSubmitter{err: tt.err})
			rec, body := do(t, router, http.MethodPost, "/tournaments/t1/matches/m1/result", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, body, "error")
		})
	}
}

func TestScorerLogin(t *testing.T) {
	router := newTestRouter(&fakeReader{tournament: testTournament()}, &fakeSubmitter{})

	rec, body := do(t, router, http.MethodPost, "/auth/scorer", `{"pin":"2255"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed", body["token"])

	rec, _ = do(t, router, http.MethodPost, "/auth/scorer", `{"pin":"0000"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/auth/scorer", `{"pin":"off"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/auth/scorer", `{"pin":" "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{services.ErrTeamNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: m9", services.ErrMatchNotFound), http.StatusNotFound},
		{services.ErrMatchAlreadyCompleted, http.StatusConflict},
		{services.ErrTournamentConflict, http.StatusConflict},
		{services.ErrValidationFailed, http.StatusBadRequest},
		{services.ErrInvalidScore, http.StatusBadRequest},
		{services.ErrTooManyWickets, http.StatusBadRequest},
		{services.ErrInvalidWinner, http.StatusBadRequest},
		{services.ErrInvalidSeed, http.StatusBadRequest},
		{services.ErrAuthInvalidCredentials, http.StatusUnauthorized},
		{services.ErrScorerLoginDisabled, http.StatusForbidden},
		{fmt.Errorf("save standings: %w", io.ErrUnexpectedEOF), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(rec, req, tt.err)

			assert.Equal(t, tt.want, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "error")
		})
	}
}
