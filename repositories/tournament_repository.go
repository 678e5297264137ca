package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-league/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrTournamentConflict  = errors.New("tournament already exists")
	ErrMatchNotFound       = errors.New("match not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrMatchTeamInvalid    = errors.New("match references an unknown team")
	ErrMatchStateInvalid   = errors.New("match status and result are inconsistent")
	ErrTeamDuplicate       = errors.New("duplicate team in tournament")
	ErrMatchDuplicate      = errors.New("duplicate match in tournament")
	ErrStoredMatchCorrupt  = errors.New("stored match is inconsistent")
	ErrStandingTeamInvalid = errors.New("standing references an unknown team")
)

type TournamentRepository interface {
	Exists(ctx context.Context, exec SQLExecutor, id string) (bool, error)
	// Create inserts the tournament row with its teams and matches.
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	// GetByID returns the tournament with teams and matches but without standings.
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error)
	SaveMatch(ctx context.Context, exec SQLExecutor, tournamentID string, match models.Match) error
	UpdateTeamNRR(ctx context.Context, exec SQLExecutor, tournamentID string, teams []models.Team) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Exists(ctx context.Context, exec SQLExecutor, id string) (bool, error) {
	var exists bool
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tournaments WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx,
		`INSERT INTO tournaments (id, name) VALUES ($1, $2)`, t.ID, t.Name,
	); err != nil {
		return r.handleTournamentError(err)
	}

	for _, team := range t.Teams {
		_, err := executor.ExecContext(ctx, `
			INSERT INTO teams (tournament_id, id, name, short_name, primary_color, captain, players, logo_key, nrr)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, team.ID, team.Name, team.ShortName, team.PrimaryColor, team.Captain,
			pq.Array(team.Players), team.LogoKey, team.NRR,
		)
		if err != nil {
			return fmt.Errorf("insert team %s: %w", team.ID, r.handleTournamentError(err))
		}
	}

	for _, m := range t.Matches {
		result, err := encodeResult(m)
		if err != nil {
			return err
		}
		_, err = executor.ExecContext(ctx, `
			INSERT INTO matches
				(tournament_id, id, match_number, team1_id, team2_id, match_date, match_time, venue, status, is_final, result)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			t.ID, m.ID, m.Number, m.Team1, m.Team2, m.Date, m.Time, m.Venue, m.Status(), m.IsFinal, result,
		)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.ID, r.handleTournamentError(err))
		}
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	executor := r.getExecutor(exec)

	t := &models.Tournament{}
	err := executor.QueryRowContext(ctx, `SELECT id, name FROM tournaments WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if t.Teams, err = r.listTeams(ctx, executor, id); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if t.Matches, err = r.listMatches(ctx, executor, id); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) listTeams(ctx context.Context, executor SQLExecutor, tournamentID string) ([]models.Team, error) {
	rows, err := executor.QueryContext(ctx, `
		SELECT id, name, short_name, primary_color, captain, players, logo_key, nrr
		FROM teams
		WHERE tournament_id = $1
		ORDER BY id ASC`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID, &team.Name, &team.ShortName, &team.PrimaryColor, &team.Captain,
			pq.Array(&team.Players), &team.LogoKey, &team.NRR,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTournamentRepository) listMatches(ctx context.Context, executor SQLExecutor, tournamentID string) ([]models.Match, error) {
	rows, err := executor.QueryContext(ctx, `
		SELECT id, match_number, team1_id, team2_id, match_date, match_time, venue, status, is_final, result
		FROM matches
		WHERE tournament_id = $1
		ORDER BY match_number ASC, id ASC`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var (
			m      models.Match
			status models.MatchStatus
			raw    []byte
		)
		if err := rows.Scan(
			&m.ID, &m.Number, &m.Team1, &m.Team2, &m.Date, &m.Time, &m.Venue, &status, &m.IsFinal, &raw,
		); err != nil {
			return nil, err
		}
		if m.State, err = decodeState(status, raw); err != nil {
			return nil, fmt.Errorf("%w: match %s: %w", ErrStoredMatchCorrupt, m.ID, err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresTournamentRepository) SaveMatch(ctx context.Context, exec SQLExecutor, tournamentID string, match models.Match) error {
	result, err := encodeResult(match)
	if err != nil {
		return err
	}
	res, err := r.getExecutor(exec).ExecContext(ctx, `
		UPDATE matches SET status = $1, result = $2
		WHERE tournament_id = $3 AND id = $4`,
		match.Status(), result, tournamentID, match.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(res, ErrMatchNotFound)
}

func (r *postgresTournamentRepository) UpdateTeamNRR(ctx context.Context, exec SQLExecutor, tournamentID string, teams []models.Team) error {
	executor := r.getExecutor(exec)
	for _, team := range teams {
		res, err := executor.ExecContext(ctx,
			`UPDATE teams SET nrr = $1 WHERE tournament_id = $2 AND id = $3`,
			team.NRR, tournamentID, team.ID,
		)
		if err != nil {
			return err
		}
		if err := checkAffectedRows(res, ErrTeamNotFound); err != nil {
			return fmt.Errorf("team %s: %w", team.ID, err)
		}
	}
	return nil
}

func encodeResult(m models.Match) ([]byte, error) {
	res, ok := m.Result()
	if !ok {
		return nil, nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result of match %s: %w", m.ID, err)
	}
	return data, nil
}

func decodeState(status models.MatchStatus, raw []byte) (models.MatchState, error) {
	var result *models.MatchResult
	if len(raw) > 0 {
		result = &models.MatchResult{}
		if err := json.Unmarshal(raw, result); err != nil {
			return nil, err
		}
	}
	return models.StateFor(status, result)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			switch pqErr.Constraint {
			case "tournaments_pkey":
				return ErrTournamentConflict
			case "teams_pkey":
				return ErrTeamDuplicate
			case "matches_pkey":
				return ErrMatchDuplicate
			}
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_tournament_id_team1_id_fkey", "matches_tournament_id_team2_id_fkey":
				return ErrMatchTeamInvalid
			}
		case "23514": // check_violation
			switch pqErr.Constraint {
			case "matches_distinct_teams":
				return ErrMatchTeamInvalid
			case "matches_result_iff_completed":
				return ErrMatchStateInvalid
			}
		}
	}
	return err
}
