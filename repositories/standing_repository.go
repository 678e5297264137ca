package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/cricket-league/models"
	"github.com/lib/pq"
)

type StandingRepository interface {
	// ListByTournament returns the stored table ordered by rank.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.TeamStats, error)
	// ReplaceAll upserts every row of the table; rows not in standings are left alone.
	ReplaceAll(ctx context.Context, exec SQLExecutor, tournamentID string, standings []models.TeamStats) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.TeamStats, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, `
		SELECT team_id, played, won, lost, points, nrr, rank, last_five, updated_at
		FROM team_standings
		WHERE tournament_id = $1
		ORDER BY rank ASC, team_id ASC`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.TeamStats, 0)
	for rows.Next() {
		var s models.TeamStats
		if err := rows.Scan(
			&s.TeamID, &s.Played, &s.Won, &s.Lost, &s.Points, &s.NRR, &s.Rank,
			pq.Array(&s.LastFiveResults), &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if s.LastFiveResults == nil {
			s.LastFiveResults = []bool{}
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) ReplaceAll(ctx context.Context, exec SQLExecutor, tournamentID string, standings []models.TeamStats) error {
	executor := r.getExecutor(exec)
	now := time.Now().UTC()

	query := `
		INSERT INTO team_standings
			(tournament_id, team_id, played, won, lost, points, nrr, rank, last_five, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tournament_id, team_id) DO UPDATE SET
			played = EXCLUDED.played,
			won = EXCLUDED.won,
			lost = EXCLUDED.lost,
			points = EXCLUDED.points,
			nrr = EXCLUDED.nrr,
			rank = EXCLUDED.rank,
			last_five = EXCLUDED.last_five,
			updated_at = EXCLUDED.updated_at`

	for _, s := range standings {
		form := s.LastFiveResults
		if form == nil {
			form = []bool{}
		}
		_, err := executor.ExecContext(ctx, query,
			tournamentID, s.TeamID, s.Played, s.Won, s.Lost, s.Points, s.NRR, s.Rank,
			pq.Array(form), now,
		)
		if err != nil {
			return fmt.Errorf("upsert standing for %s: %w", s.TeamID, handleStandingError(err))
		}
	}
	return nil
}

func handleStandingError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrStandingTeamInvalid
	}
	return err
}
