package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/repositories"
	"github.com/Dosada05/cricket-league/standings"
	"github.com/Dosada05/cricket-league/storage"
)

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисного слоя.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTournamentConflict):
		return ErrTournamentConflict
	case errors.Is(err, repositories.ErrTeamDuplicate),
		errors.Is(err, repositories.ErrMatchDuplicate),
		errors.Is(err, repositories.ErrMatchTeamInvalid),
		errors.Is(err, repositories.ErrMatchStateInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	return err
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

// tournamentStore loads and saves a whole tournament through the repositories.
type tournamentStore struct {
	tournaments repositories.TournamentRepository
	standings   repositories.StandingRepository
	rules       standings.Rules
}

// load returns the tournament with its points table. A table that is missing
// rows is rebuilt from the stored match history.
func (s tournamentStore) load(ctx context.Context, exec repositories.SQLExecutor, id string) (models.Tournament, error) {
	t, err := s.tournaments.GetByID(ctx, exec, id)
	if err != nil {
		return models.Tournament{}, handleRepositoryError(err)
	}

	table, err := s.standings.ListByTournament(ctx, exec, id)
	if err != nil {
		return models.Tournament{}, fmt.Errorf("list standings of %s: %w", id, err)
	}
	if len(table) != len(t.Teams) {
		table, err = s.rules.Rebuild(t.TeamIDs(), t.Matches)
		if err != nil {
			return models.Tournament{}, fmt.Errorf("rebuild standings of %s: %w", id, err)
		}
	}
	t.Standings = table
	return *t, nil
}

// saveResult persists match together with the table and NRR snapshots of t.
func (s tournamentStore) saveResult(ctx context.Context, exec repositories.SQLExecutor, t models.Tournament, match models.Match) error {
	if err := s.tournaments.SaveMatch(ctx, exec, t.ID, match); err != nil {
		return fmt.Errorf("save match %s: %w", match.ID, handleRepositoryError(err))
	}
	if err := s.standings.ReplaceAll(ctx, exec, t.ID, t.Standings); err != nil {
		return fmt.Errorf("save standings: %w", err)
	}
	if err := s.tournaments.UpdateTeamNRR(ctx, exec, t.ID, t.Teams); err != nil {
		return fmt.Errorf("save team nrr: %w", handleRepositoryError(err))
	}
	return nil
}
