package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/cricket-league/metrics"
	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/realtime"
	"github.com/Dosada05/cricket-league/storage"
)

const (
	defaultPublishAttempts = 3
	defaultPublishBackoff  = 250 * time.Millisecond
)

// StandingsSnapshot is the document pushed to websocket clients and uploaded
// to object storage after every accepted result.
type StandingsSnapshot struct {
	TournamentID string             `json:"tournament_id"`
	Standings    []models.TeamStats `json:"standings"`
	LastMatch    *models.Match      `json:"last_match,omitempty"`
	PublishedAt  time.Time          `json:"published_at"`
}

func SnapshotKey(tournamentID string) string {
	return fmt.Sprintf("tournaments/%s/standings.json", tournamentID)
}

type RoomBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{}) error
}

type PublisherConfig struct {
	Attempts int
	// Backoff is multiplied by the attempt number before each retry.
	Backoff time.Duration
}

type SnapshotPublisher struct {
	hub      RoomBroadcaster
	uploader storage.FileUploader
	attempts int
	backoff  time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSnapshotPublisher builds a publisher. uploader may be nil, in which case
// snapshots are only broadcast.
func NewSnapshotPublisher(hub RoomBroadcaster, uploader storage.FileUploader, cfg PublisherConfig, m *metrics.Metrics, logger *slog.Logger) *SnapshotPublisher {
	if cfg.Attempts < 1 {
		cfg.Attempts = defaultPublishAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultPublishBackoff
	}
	return &SnapshotPublisher{
		hub:      hub,
		uploader: uploader,
		attempts: cfg.Attempts,
		backoff:  cfg.Backoff,
		metrics:  m,
		logger:   logger.With(slog.String("component", "snapshot_publisher")),
	}
}

// Publish broadcasts the snapshot to the tournament room and uploads it, both
// retried independently. It returns the first error left after all retries.
func (p *SnapshotPublisher) Publish(ctx context.Context, snapshot StandingsSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.retry(gctx, "broadcast", func(context.Context) error {
			return p.hub.BroadcastToRoom(snapshot.TournamentID, realtime.Message{
				Type:    realtime.MessageStandingsUpdated,
				Payload: snapshot,
				RoomID:  snapshot.TournamentID,
			})
		})
	})
	if p.uploader != nil {
		g.Go(func() error {
			return p.retry(gctx, "upload", func(ctx context.Context) error {
				_, err := p.uploader.Upload(ctx, SnapshotKey(snapshot.TournamentID), "application/json", bytes.NewReader(data))
				return err
			})
		})
	}

	if err := g.Wait(); err != nil {
		p.metrics.PublishFailed()
		return err
	}
	return nil
}

func (p *SnapshotPublisher) retry(ctx context.Context, op string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		p.logger.Warn("Publish attempt failed",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.attempts),
			slog.Any("error", err),
		)
		if attempt == p.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(time.Duration(attempt) * p.backoff):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, p.attempts, err)
}
