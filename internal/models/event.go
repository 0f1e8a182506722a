package models

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes journal events.
type EventType string

const (
	// Stage events
	EventTypeStageEntered   EventType = "stage.entered"
	EventTypeStageCompleted EventType = "stage.completed"

	// Auto-play events
	EventTypeAutoPlayStarted  EventType = "autoplay.started"
	EventTypeAutoPlayStopped  EventType = "autoplay.stopped"
	EventTypeAutoPlayFinished EventType = "autoplay.finished"

	// Sequence events
	EventTypeSequenceReset EventType = "sequence.reset"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeSession EntityType = "session"
)

// Event is one journaled walkthrough transition.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`

	// EntityType and EntityID name the run the event belongs to; for
	// walkthroughs that is EntityTypeSession and the session uuid.
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`

	// Payload is one of StagePayload, AutoPlayPayload or ResetPayload,
	// encoded as JSON.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata carries the controller action that produced the event.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate reports every missing required field.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// StagePayload is the payload for stage.entered and stage.completed events.
type StagePayload struct {
	Catalog  string `json:"catalog"`
	StageID  string `json:"stage_id"`
	Index    int    `json:"index"`
	Previous string `json:"previous,omitempty"`
	Action   string `json:"action"`
}

// AutoPlayPayload is the payload for autoplay.* events.
type AutoPlayPayload struct {
	Catalog string `json:"catalog"`
	StageID string `json:"stage_id"`
	Cursor  int    `json:"cursor"`
	Length  int    `json:"length"`
}

// ResetPayload is the payload for sequence.reset events.
type ResetPayload struct {
	Catalog   string `json:"catalog"`
	FromStage string `json:"from_stage"`
	Completed int    `json:"completed"`
}
