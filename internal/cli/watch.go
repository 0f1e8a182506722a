package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/kundanareddy2830/quantum-sight/internal/db"
	"github.com/kundanareddy2830/quantum-sight/internal/models"
)

// StreamConfig controls how the journal is followed.
type StreamConfig struct {
	PollInterval time.Duration
	BatchSize    int

	// IncludeExisting replays events already in the journal before
	// following new ones.
	IncludeExisting bool

	// SessionID limits the stream to one walkthrough run.
	SessionID string
}

// DefaultStreamConfig returns the follow defaults.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		PollInterval: 500 * time.Millisecond,
		BatchSize:    100,
	}
}

type eventSource interface {
	Query(ctx context.Context, q db.EventQuery) (*db.EventPage, error)
	Recent(ctx context.Context, limit int) ([]*models.Event, error)
}

// EventStreamer polls the journal and writes new events as JSON lines.
type EventStreamer struct {
	repo   eventSource
	out    io.Writer
	config StreamConfig
}

// NewEventStreamer creates a streamer over repo writing to out.
func NewEventStreamer(repo eventSource, out io.Writer, config StreamConfig) *EventStreamer {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultStreamConfig().PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultStreamConfig().BatchSize
	}
	return &EventStreamer{repo: repo, out: out, config: config}
}

// Stream writes events until ctx is cancelled. Cancellation is not an error.
func (s *EventStreamer) Stream(ctx context.Context) error {
	cursor, err := s.startCursor(ctx)
	if err != nil {
		return ignoreCancel(ctx, err)
	}

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		for {
			events, next, err := s.poll(ctx, cursor)
			if err != nil {
				return ignoreCancel(ctx, err)
			}
			for _, event := range events {
				if err := s.writeEvent(event); err != nil {
					return err
				}
			}
			cursor = next
			if len(events) < s.config.BatchSize {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// startCursor is empty when replaying, else the newest event id.
func (s *EventStreamer) startCursor(ctx context.Context) (string, error) {
	if s.config.IncludeExisting {
		return "", nil
	}
	latest, err := s.repo.Recent(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(latest) == 0 {
		return "", nil
	}
	return latest[0].ID, nil
}

func (s *EventStreamer) poll(ctx context.Context, cursor string) ([]*models.Event, string, error) {
	q := db.EventQuery{
		Cursor: cursor,
		Limit:  s.config.BatchSize,
	}
	if s.config.SessionID != "" {
		entityType := models.EntityTypeSession
		sessionID := s.config.SessionID
		q.EntityType = &entityType
		q.EntityID = &sessionID
	}

	page, err := s.repo.Query(ctx, q)
	if err != nil {
		return nil, cursor, fmt.Errorf("failed to poll journal: %w", err)
	}

	next := cursor
	if n := len(page.Events); n > 0 {
		next = page.Events[n-1].ID
	}
	return page.Events, next, nil
}

func (s *EventStreamer) writeEvent(event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	_, err = fmt.Fprintln(s.out, string(data))
	return err
}

func ignoreCancel(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
