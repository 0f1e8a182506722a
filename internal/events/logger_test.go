package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundanareddy2830/quantum-sight/internal/clock"
	"github.com/kundanareddy2830/quantum-sight/internal/controller"
	"github.com/kundanareddy2830/quantum-sight/internal/models"
	"github.com/kundanareddy2830/quantum-sight/internal/stages"
)

type fakeRepo struct {
	mu     sync.Mutex
	events []*models.Event
	err    error
}

func (r *fakeRepo) Create(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeRepo) types() []models.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func testRegistry(t *testing.T) *stages.Registry {
	t.Helper()
	r, err := stages.NewRegistry("demo", []stages.Descriptor{
		{ID: "intro"},
		{ID: "ring", Dwell: time.Second},
		{ID: "verdict"},
	}, []string{"ring", "verdict"})
	require.NoError(t, err)
	return r
}

func TestLogStageEntered(t *testing.T) {
	repo := &fakeRepo{}

	err := LogStageEntered(context.Background(), repo, "session-1", models.StagePayload{
		Catalog: "demo",
		StageID: "ring",
		Index:   1,
		Action:  "goto",
	})
	require.NoError(t, err)
	require.Len(t, repo.events, 1)

	event := repo.events[0]
	assert.Equal(t, models.EventTypeStageEntered, event.Type)
	assert.Equal(t, models.EntityTypeSession, event.EntityType)
	assert.Equal(t, "session-1", event.EntityID)

	var payload models.StagePayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "ring", payload.StageID)
	assert.Equal(t, 1, payload.Index)
}

func TestLogHelpersRequireRepoAndSession(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, LogSequenceReset(ctx, nil, "session-1", models.ResetPayload{}))
	assert.Error(t, LogStageCompleted(ctx, &fakeRepo{}, "", models.StagePayload{}))
	assert.Error(t, LogAutoPlay(ctx, &fakeRepo{}, models.EventTypeStageEntered, "session-1", models.AutoPlayPayload{}))
}

func TestRecorderJournalsControllerChanges(t *testing.T) {
	registry := testRegistry(t)
	repo := &fakeRepo{}
	rec, err := NewRecorder(repo, registry, WithSessionID("session-1"), WithRecorderLogger(zerolog.Nop()))
	require.NoError(t, err)
	rec.Start(context.Background())

	clk := clock.NewManual(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	ctrl, err := controller.New(registry, controller.WithClock(clk), controller.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer ctrl.Close()
	require.NoError(t, ctrl.Subscribe("journal", rec))

	require.NoError(t, ctrl.Complete("intro"))
	require.NoError(t, ctrl.StartAutoPlay())
	clk.Advance(time.Second)
	ctrl.Reset()
	rec.Close()

	assert.Equal(t, []models.EventType{
		models.EventTypeStageCompleted,
		models.EventTypeStageEntered,
		models.EventTypeAutoPlayStarted,
		models.EventTypeStageCompleted,
		models.EventTypeStageCompleted,
		models.EventTypeStageEntered,
		models.EventTypeAutoPlayFinished,
		models.EventTypeSequenceReset,
	}, repo.types())

	for _, event := range repo.events {
		assert.Equal(t, "session-1", event.EntityID)
		assert.False(t, event.Timestamp.IsZero())
		require.NoError(t, event.Validate())
	}
}

func TestRecorderAutoPlayStop(t *testing.T) {
	registry := testRegistry(t)
	rec, err := NewRecorder(&fakeRepo{}, registry, WithRecorderLogger(zerolog.Nop()))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.SessionID())

	clk := clock.NewManual(time.Now())
	ctrl, err := controller.New(registry, controller.WithClock(clk), controller.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer ctrl.Close()

	var changes []controller.Change
	require.NoError(t, ctrl.SubscribeFunc("capture", func(c controller.Change) {
		changes = append(changes, c)
	}))
	require.NoError(t, ctrl.StartAutoPlay())
	ctrl.StopAutoPlay()
	require.Len(t, changes, 2)

	evts, err := rec.EventsFor(changes[1])
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, models.EventTypeAutoPlayStopped, evts[0].Type)
	assert.Equal(t, "autoplay_stop", evts[0].Metadata["action"])
}

func TestRecorderDropsWhenQueueFull(t *testing.T) {
	registry := testRegistry(t)
	repo := &fakeRepo{}
	rec, err := NewRecorder(repo, registry, WithQueueSize(1), WithRecorderLogger(zerolog.Nop()))
	require.NoError(t, err)

	ctrl, err := controller.New(registry, controller.WithClock(clock.NewManual(time.Now())), controller.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer ctrl.Close()
	require.NoError(t, ctrl.Subscribe("journal", rec))

	// Not started: the queue holds one event, the rest are dropped.
	require.NoError(t, ctrl.Complete("intro"))
	assert.Equal(t, 1, rec.Dropped())

	rec.Close()
	rec.Close()
	assert.Empty(t, repo.types())
}

func TestRecorderWriteFailureDoesNotAffectController(t *testing.T) {
	registry := testRegistry(t)
	repo := &fakeRepo{err: assert.AnError}
	rec, err := NewRecorder(repo, registry, WithRecorderLogger(zerolog.Nop()))
	require.NoError(t, err)
	rec.Start(context.Background())

	ctrl, err := controller.New(registry, controller.WithClock(clock.NewManual(time.Now())), controller.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer ctrl.Close()
	require.NoError(t, ctrl.Subscribe("journal", rec))

	require.NoError(t, ctrl.Complete("intro"))
	rec.Close()
	assert.Equal(t, "ring", ctrl.Snapshot().CurrentStageID)
}

func TestNewRecorderValidation(t *testing.T) {
	_, err := NewRecorder(nil, testRegistry(t))
	assert.Error(t, err)

	_, err = NewRecorder(&fakeRepo{}, nil)
	assert.ErrorIs(t, err, stages.ErrEmptyRegistry)
}
