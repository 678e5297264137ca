package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/repositories"
	"github.com/Dosada05/cricket-league/standings"
	"github.com/Dosada05/cricket-league/storage"
)

// ResultDay groups the completed matches played on one date.
type ResultDay struct {
	Date    string         `json:"date"`
	Matches []models.Match `json:"matches"`
}

type TournamentService struct {
	store    tournamentStore
	tx       repositories.Transactor
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() time.Time
}

// NewTournamentService builds the read side. uploader may be nil; it is only
// used to resolve team logo URLs.
func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	standingRepo repositories.StandingRepository,
	tx repositories.Transactor,
	rules standings.Rules,
	uploader storage.FileUploader,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		store:    tournamentStore{tournaments: tournamentRepo, standings: standingRepo, rules: rules},
		tx:       tx,
		uploader: uploader,
		logger:   logger.With(slog.String("service", "tournaments")),
		now:      time.Now,
	}
}

func (s *TournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.store.load(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	for i := range t.Teams {
		populateTeamLogoURL(&t.Teams[i], s.uploader)
	}
	return &t, nil
}

func (s *TournamentService) GetTeam(ctx context.Context, tournamentID, teamID string) (*models.Team, error) {
	t, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	team, ok := t.Team(teamID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}
	return &team, nil
}

func (s *TournamentService) GetTeamStats(ctx context.Context, tournamentID, teamID string) (*models.TeamStats, error) {
	t, err := s.store.load(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	stats, ok := t.Stats(teamID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}
	return &stats, nil
}

func (s *TournamentService) ListStandings(ctx context.Context, tournamentID string) ([]models.TeamStats, error) {
	t, err := s.store.load(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	return t.Standings, nil
}

// Snapshot is the current table in the form sent to newly connected clients.
func (s *TournamentService) Snapshot(ctx context.Context, tournamentID string) (StandingsSnapshot, error) {
	table, err := s.ListStandings(ctx, tournamentID)
	if err != nil {
		return StandingsSnapshot{}, err
	}
	return StandingsSnapshot{
		TournamentID: tournamentID,
		Standings:    table,
		PublishedAt:  s.now().UTC(),
	}, nil
}

// ListUpcomingMatches returns scheduled matches in date and time order. A
// count of zero or less returns all of them.
func (s *TournamentService) ListUpcomingMatches(ctx context.Context, tournamentID string, count int) ([]models.Match, error) {
	t, err := s.store.load(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	upcoming := make([]models.Match, 0)
	for _, m := range t.Matches {
		if m.Status() == models.StatusScheduled {
			upcoming = append(upcoming, m)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.Number < b.Number
	})

	if count > 0 && count < len(upcoming) {
		upcoming = upcoming[:count]
	}
	return upcoming, nil
}

// ListResultsByDate groups completed matches by date, most recent date first.
func (s *TournamentService) ListResultsByDate(ctx context.Context, tournamentID string) ([]ResultDay, error) {
	t, err := s.store.load(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]models.Match)
	for _, m := range t.Matches {
		if m.IsCompleted() {
			byDate[m.Date] = append(byDate[m.Date], m)
		}
	}

	days := make([]ResultDay, 0, len(byDate))
	for date, matches := range byDate {
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Number < matches[j].Number })
		days = append(days, ResultDay{Date: date, Matches: matches})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

// EnsureSeeded stores seed when no tournament with its ID exists yet, with the
// table and team NRR rebuilt from its completed matches. It reports whether
// anything was written.
func (s *TournamentService) EnsureSeeded(ctx context.Context, seed models.Tournament) (bool, error) {
	if seed.ID == "" {
		return false, fmt.Errorf("%w: tournament id is required", ErrInvalidSeed)
	}
	table, err := s.store.rules.Rebuild(seed.TeamIDs(), seed.Matches)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	nrr := make(map[string]float64, len(table))
	for _, row := range table {
		nrr[row.TeamID] = row.NRR
	}
	teams := make([]models.Team, len(seed.Teams))
	for i, team := range seed.Teams {
		teams[i] = team
		teams[i].NRR = nrr[team.ID]
	}
	seed.Teams = teams
	seed.Standings = table

	created := false
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		exists, err := s.store.tournaments.Exists(ctx, exec, seed.ID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := s.store.tournaments.Create(ctx, exec, &seed); err != nil {
			return handleRepositoryError(err)
		}
		if err := s.store.standings.ReplaceAll(ctx, exec, seed.ID, seed.Standings); err != nil {
			return fmt.Errorf("seed standings: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed tournament %s: %w", seed.ID, err)
	}

	if created {
		s.logger.Info("Tournament seeded",
			slog.String("tournament_id", seed.ID),
			slog.Int("teams", len(seed.Teams)),
			slog.Int("matches", len(seed.Matches)),
		)
	}
	return created, nil
}
