package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/repositories"
	"github.com/Dosada05/cricket-league/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory TournamentRepository, StandingRepository and
// Transactor. A failed transaction restores the state it started from.
type fakeStore struct {
	mu          sync.Mutex
	tournaments map[string]models.Tournament
	standings   map[string][]models.TeamStats

	failReplaceAll error
	txCount        int
}

var (
	_ repositories.TournamentRepository = (*fakeStore)(nil)
	_ repositories.StandingRepository   = (*fakeStore)(nil)
	_ repositories.Transactor           = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		tournaments: map[string]models.Tournament{},
		standings:   map[string][]models.TeamStats{},
	}
}

func cloneTournament(t models.Tournament) models.Tournament {
	out := models.Tournament{ID: t.ID, Name: t.Name}
	for _, team := range t.Teams {
		team.Players = append([]string(nil), team.Players...)
		out.Teams = append(out.Teams, team)
	}
	out.Matches = append([]models.Match(nil), t.Matches...)
	return out
}

func cloneTable(table []models.TeamStats) []models.TeamStats {
	out := make([]models.TeamStats, 0, len(table))
	for _, s := range table {
		out = append(out, s.Clone())
	}
	return out
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.mu.Lock()
	f.txCount++
	savedT := map[string]models.Tournament{}
	for k, v := range f.tournaments {
		savedT[k] = cloneTournament(v)
	}
	savedS := map[string][]models.TeamStats{}
	for k, v := range f.standings {
		savedS[k] = cloneTable(v)
	}
	f.mu.Unlock()

	if err := fn(nil); err != nil {
		f.mu.Lock()
		f.tournaments, f.standings = savedT, savedS
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) Exists(_ context.Context, _ repositories.SQLExecutor, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tournaments[id]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tournaments[t.ID]; ok {
		return repositories.ErrTournamentConflict
	}
	f.tournaments[t.ID] = cloneTournament(*t)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	out := cloneTournament(t)
	return &out, nil
}

func (f *fakeStore) SaveMatch(_ context.Context, _ repositories.SQLExecutor, tournamentID string, match models.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[tournamentID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	for i := range t.Matches {
		if t.Matches[i].ID == match.ID {
			t.Matches[i] = match
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (f *fakeStore) UpdateTeamNRR(_ context.Context, _ repositories.SQLExecutor, tournamentID string, teams []models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tournaments[tournamentID]
	nrr := map[string]float64{}
	for _, team := range teams {
		nrr[team.ID] = team.NRR
	}
	for i := range t.Teams {
		if v, ok := nrr[t.Teams[i].ID]; ok {
			t.Teams[i].NRR = v
		}
	}
	return nil
}

func (f *fakeStore) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID string) ([]models.TeamStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneTable(f.standings[tournamentID]), nil
}

func (f *fakeStore) ReplaceAll(_ context.Context, _ repositories.SQLExecutor, tournamentID string, table []models.TeamStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReplaceAll != nil {
		return f.failReplaceAll
	}
	f.standings[tournamentID] = cloneTable(table)
	return nil
}

func (f *fakeStore) match(tournamentID, matchID string) models.Match {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tournaments[tournamentID]
	m, _ := t.Match(matchID)
	return m
}

func (f *fakeStore) team(tournamentID, teamID string) models.Team {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tournaments[tournamentID]
	team, _ := t.Team(teamID)
	return team
}

type fakePublisher struct {
	mu        sync.Mutex
	snapshots []StandingsSnapshot
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, snapshot StandingsSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, snapshot)
	return p.err
}

func (p *fakePublisher) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	failures int
	calls    int
	rooms    []string
	messages []interface{}
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls <= b.failures {
		return errors.New("hub unavailable")
	}
	b.rooms = append(b.rooms, roomID)
	b.messages = append(b.messages, message)
	return nil
}

type fakeUploader struct {
	mu       sync.Mutex
	failures int
	calls    int
	objects  map[string][]byte
	baseURL  string
}

var _ storage.FileUploader = (*fakeUploader)(nil)

func (u *fakeUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.calls <= u.failures {
		return nil, errors.New("bucket unavailable")
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, err
	}
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	if u.baseURL == "" || key == "" {
		return ""
	}
	return u.baseURL + "/" + key
}
