package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kundanareddy2830/quantum-sight/internal/controller"
	"github.com/kundanareddy2830/quantum-sight/internal/logging"
	"github.com/kundanareddy2830/quantum-sight/internal/models"
	"github.com/kundanareddy2830/quantum-sight/internal/stages"
)

// DefaultQueueSize bounds the number of events waiting to be written.
const DefaultQueueSize = 256

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSessionID overrides the generated session id.
func WithSessionID(id string) RecorderOption {
	return func(r *Recorder) {
		if id != "" {
			r.sessionID = id
		}
	}
}

// WithQueueSize sets the write queue capacity.
func WithQueueSize(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// WithRecorderLogger sets the recorder logger.
func WithRecorderLogger(logger zerolog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// Recorder is a controller subscriber that journals every change. Changes
// are converted on the notifying goroutine and written by a background
// writer, so a slow store never holds up the controller. When the queue is
// full the event is dropped and a warning logged.
type Recorder struct {
	repo      Repository
	registry  *stages.Registry
	catalog   string
	autoLen   int
	sessionID string
	queueSize int
	logger    zerolog.Logger

	mu      sync.Mutex
	queue   chan *models.Event
	started bool
	closed  bool
	dropped int
	done    chan struct{}
}

// NewRecorder creates a recorder for a session over the given registry.
func NewRecorder(repo Repository, registry *stages.Registry, opts ...RecorderOption) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository is required")
	}
	if registry == nil {
		return nil, stages.ErrEmptyRegistry
	}

	r := &Recorder{
		repo:      repo,
		registry:  registry,
		catalog:   registry.Name(),
		autoLen:   len(registry.AutoPlaySequence()),
		sessionID: uuid.New().String(),
		queueSize: DefaultQueueSize,
		logger:    logging.Component("journal"),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = make(chan *models.Event, r.queueSize)
	return r, nil
}

// SessionID returns the entity id every event is recorded under.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Dropped returns how many events were discarded because the queue was full.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Start launches the background writer. Calling it twice is a no-op.
func (r *Recorder) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.closed {
		return
	}
	r.started = true
	go r.run(ctx)
}

// Close stops accepting changes and waits for queued events to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	started := r.started
	r.mu.Unlock()

	if started {
		<-r.done
	}
}

// OnStageChange implements controller.Subscriber.
func (r *Recorder) OnStageChange(change controller.Change) {
	evts, err := r.EventsFor(change)
	if err != nil {
		r.logger.Warn().Err(err).Str("action", string(change.Action)).Msg("failed to build journal events")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	for _, event := range evts {
		select {
		case r.queue <- event:
		default:
			r.dropped++
			r.logger.Warn().Str("type", string(event.Type)).Msg("journal queue full, event dropped")
		}
	}
}

// EventsFor maps one change to its journal events. Order within a change is
// auto-play start, completions, stage entry, auto-play end.
func (r *Recorder) EventsFor(change controller.Change) ([]*models.Event, error) {
	var out []*models.Event
	add := func(eventType models.EventType, payload any) error {
		event, err := newEvent(eventType, r.sessionID, payload)
		if err != nil {
			return err
		}
		event.Timestamp = change.Timestamp
		event.Metadata = map[string]string{"action": string(change.Action)}
		out = append(out, event)
		return nil
	}

	switch change.Action {
	case controller.ActionReset:
		err := add(models.EventTypeSequenceReset, models.ResetPayload{
			Catalog:   r.catalog,
			FromStage: change.Previous.CurrentStageID,
			Completed: len(change.Previous.CompletedStageIDs),
		})
		return out, err

	case controller.ActionAutoPlayStop:
		err := add(models.EventTypeAutoPlayStopped, r.autoPlayPayload(change.Current.CurrentStageID, change.Previous.AutoPlayCursor))
		return out, err

	case controller.ActionAutoPlayStart:
		if err := add(models.EventTypeAutoPlayStarted, r.autoPlayPayload(change.Current.CurrentStageID, 0)); err != nil {
			return nil, err
		}
	}

	for _, id := range change.NewlyCompleted() {
		index, _ := r.registry.IndexOf(id)
		if err := add(models.EventTypeStageCompleted, models.StagePayload{
			Catalog: r.catalog,
			StageID: id,
			Index:   index,
			Action:  string(change.Action),
		}); err != nil {
			return nil, err
		}
	}

	if change.Entered() {
		if err := add(models.EventTypeStageEntered, models.StagePayload{
			Catalog:  r.catalog,
			StageID:  change.Current.CurrentStageID,
			Index:    change.Current.CurrentIndex,
			Previous: change.Previous.CurrentStageID,
			Action:   string(change.Action),
		}); err != nil {
			return nil, err
		}
	}

	if change.AutoPlayFinished() {
		cursor := r.autoLen - 1
		if err := add(models.EventTypeAutoPlayFinished, r.autoPlayPayload(change.Current.CurrentStageID, cursor)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (r *Recorder) autoPlayPayload(stageID string, cursor int) models.AutoPlayPayload {
	return models.AutoPlayPayload{
		Catalog: r.catalog,
		StageID: stageID,
		Cursor:  cursor,
		Length:  r.autoLen,
	}
}

func (r *Recorder) run(ctx context.Context) {
	defer close(r.done)
	for event := range r.queue {
		if err := r.repo.Create(ctx, event); err != nil {
			r.logger.Warn().Err(err).Str("type", string(event.Type)).Msg("failed to write journal event")
		}
	}
}
