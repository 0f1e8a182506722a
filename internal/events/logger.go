// Package events turns controller changes into journal events.
package events

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/kundanareddy2830/quantum-sight/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// LogStageEntered records a stage.entered event for a session.
func LogStageEntered(ctx context.Context, repo Repository, sessionID string, payload models.StagePayload) error {
	return logEvent(ctx, repo, models.EventTypeStageEntered, sessionID, payload)
}

// LogStageCompleted records a stage.completed event for a session.
func LogStageCompleted(ctx context.Context, repo Repository, sessionID string, payload models.StagePayload) error {
	return logEvent(ctx, repo, models.EventTypeStageCompleted, sessionID, payload)
}

// LogAutoPlay records one of the autoplay.* events for a session.
func LogAutoPlay(ctx context.Context, repo Repository, eventType models.EventType, sessionID string, payload models.AutoPlayPayload) error {
	switch eventType {
	case models.EventTypeAutoPlayStarted, models.EventTypeAutoPlayStopped, models.EventTypeAutoPlayFinished:
	default:
		return fmt.Errorf("not an auto-play event type: %q", eventType)
	}
	return logEvent(ctx, repo, eventType, sessionID, payload)
}

// LogSequenceReset records a sequence.reset event for a session.
func LogSequenceReset(ctx context.Context, repo Repository, sessionID string, payload models.ResetPayload) error {
	return logEvent(ctx, repo, models.EventTypeSequenceReset, sessionID, payload)
}

func logEvent(ctx context.Context, repo Repository, eventType models.EventType, sessionID string, payload any) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	event, err := newEvent(eventType, sessionID, payload)
	if err != nil {
		return err
	}
	return repo.Create(ctx, event)
}

func newEvent(eventType models.EventType, sessionID string, payload any) (*models.Event, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return &models.Event{
		Type:       eventType,
		EntityType: models.EntityTypeSession,
		EntityID:   sessionID,
		Payload:    data,
	}, nil
}
