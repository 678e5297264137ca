package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/cricket-league/metrics"
	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/repositories"
	"github.com/Dosada05/cricket-league/scoring"
	"github.com/Dosada05/cricket-league/standings"
)

// SubmitResultInput is what the scorer enters for a finished match. Overs use
// cricket notation, "5.3" meaning five overs and three balls.
type SubmitResultInput struct {
	Winner           string `json:"winner"`
	WinningTeamScore string `json:"winning_team_score"`
	LosingTeamScore  string `json:"losing_team_score"`
	WinMargin        string `json:"win_margin"`
	PlayerOfMatch    string `json:"player_of_match,omitempty"`
	WinningTeamOvers string `json:"winning_team_overs_faced"`
	LosingTeamOvers  string `json:"losing_team_overs_faced"`
}

type SubmitResultOutput struct {
	Match     models.Match       `json:"match"`
	Standings []models.TeamStats `json:"standings"`
}

type Publisher interface {
	Publish(ctx context.Context, snapshot StandingsSnapshot) error
}

type ResultService struct {
	store     tournamentStore
	tx        repositories.Transactor
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time

	locks sync.Map // tournament ID -> *sync.Mutex
}

func NewResultService(
	tournamentRepo repositories.TournamentRepository,
	standingRepo repositories.StandingRepository,
	tx repositories.Transactor,
	rules standings.Rules,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ResultService {
	return &ResultService{
		store:     tournamentStore{tournaments: tournamentRepo, standings: standingRepo, rules: rules},
		tx:        tx,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With(slog.String("service", "results")),
		now:       time.Now,
	}
}

// SubmitResult completes a scheduled or live match, updates the points table
// and persists everything in one transaction. The new table is then published;
// a failed publish is logged and does not fail the submission.
func (s *ResultService) SubmitResult(ctx context.Context, tournamentID, matchID string, input SubmitResultInput) (*SubmitResultOutput, error) {
	out, err := s.submit(ctx, tournamentID, matchID, input)
	switch {
	case err == nil:
		s.metrics.ResultSubmitted(metrics.OutcomeAccepted)
	case isRejection(err):
		s.metrics.ResultSubmitted(metrics.OutcomeRejected)
		return nil, err
	default:
		s.metrics.ResultSubmitted(metrics.OutcomeFailed)
		s.logger.Error("Result submission failed",
			slog.String("tournament_id", tournamentID),
			slog.String("match_id", matchID),
			slog.Any("error", err),
		)
		return nil, err
	}

	snapshot := StandingsSnapshot{
		TournamentID: tournamentID,
		Standings:    out.Standings,
		LastMatch:    &out.Match,
		PublishedAt:  s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, snapshot); err != nil {
		s.logger.Error("Standings publish failed",
			slog.String("tournament_id", tournamentID),
			slog.String("match_id", matchID),
			slog.Any("error", err),
		)
	}
	return out, nil
}

func (s *ResultService) submit(ctx context.Context, tournamentID, matchID string, input SubmitResultInput) (*SubmitResultOutput, error) {
	winning, losing, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	mu := s.lockFor(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	var out *SubmitResultOutput
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.store.load(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		match, ok := t.Match(matchID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		if match.IsCompleted() {
			return fmt.Errorf("%w: %s", ErrMatchAlreadyCompleted, matchID)
		}

		result, err := buildResult(match, input, winning, losing)
		if err != nil {
			return err
		}
		match.State = models.Completed{Result: result}

		started := time.Now()
		next, err := s.store.rules.Apply(t, match)
		s.metrics.ObserveRecompute(time.Since(started))
		if err != nil {
			return fmt.Errorf("apply result of %s: %w", matchID, err)
		}

		if err := s.store.saveResult(ctx, exec, next, match); err != nil {
			return err
		}
		out = &SubmitResultOutput{Match: match, Standings: next.Standings}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Match result recorded",
		slog.String("tournament_id", tournamentID),
		slog.String("match_id", matchID),
		slog.String("winner", input.Winner),
	)
	return out, nil
}

func (s *ResultService) validate(input SubmitResultInput) (scoring.Score, scoring.Score, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"winner", input.Winner},
		{"winning_team_score", input.WinningTeamScore},
		{"losing_team_score", input.LosingTeamScore},
		{"win_margin", input.WinMargin},
		{"winning_team_overs_faced", input.WinningTeamOvers},
		{"losing_team_overs_faced", input.LosingTeamOvers},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return scoring.Score{}, scoring.Score{}, fmt.Errorf("%w: required fields missing: %s", ErrValidationFailed, strings.Join(missing, ", "))
	}

	winning, err := scoring.ParseScore(input.WinningTeamScore)
	if err != nil {
		return scoring.Score{}, scoring.Score{}, fmt.Errorf("%w: winning_team_score: %w", ErrInvalidScore, err)
	}
	losing, err := scoring.ParseScore(input.LosingTeamScore)
	if err != nil {
		return scoring.Score{}, scoring.Score{}, fmt.Errorf("%w: losing_team_score: %w", ErrInvalidScore, err)
	}

	limit := s.store.rules.AllOutWickets
	if winning.Wickets > limit || losing.Wickets > limit {
		return scoring.Score{}, scoring.Score{}, fmt.Errorf("%w: at most %d wickets can fall", ErrTooManyWickets, limit)
	}
	return winning, losing, nil
}

// buildResult derives the loser from the fixture. In a tie both sides are
// recorded as "Tie" and the winning fields hold team1's innings.
func buildResult(match models.Match, input SubmitResultInput, winning, losing scoring.Score) (models.MatchResult, error) {
	winner := strings.TrimSpace(input.Winner)
	var loser string
	switch winner {
	case models.TieResult:
		loser = models.TieResult
	case match.Team1, match.Team2:
		loser = match.Opponent(winner)
	default:
		return models.MatchResult{}, fmt.Errorf("%w: got %q for %s v %s", ErrInvalidWinner, winner, match.Team1, match.Team2)
	}

	result := models.MatchResult{
		Winner:           winner,
		Loser:            loser,
		WinningTeamScore: winning.String(),
		LosingTeamScore:  losing.String(),
		WinMargin:        strings.TrimSpace(input.WinMargin),
		PlayerOfMatch:    strings.TrimSpace(input.PlayerOfMatch),
		WinningTeamOvers: scoring.ParseOvers(input.WinningTeamOvers),
		LosingTeamOvers:  scoring.ParseOvers(input.LosingTeamOvers),
	}
	result.NRR = standings.MatchNRR(result)
	return result, nil
}

func (s *ResultService) lockFor(tournamentID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(tournamentID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func isRejection(err error) bool {
	for _, target := range []error{
		ErrValidationFailed, ErrInvalidScore, ErrTooManyWickets, ErrInvalidWinner,
		ErrMatchAlreadyCompleted, ErrMatchNotFound, ErrTournamentNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
