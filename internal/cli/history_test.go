package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundanareddy2830/quantum-sight/internal/db"
	"github.com/kundanareddy2830/quantum-sight/internal/models"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(context.Background()))
	return database
}

func stageEvent(t *testing.T, eventType models.EventType, session string, payload any) *models.Event {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &models.Event{
		Type:       eventType,
		EntityType: models.EntityTypeSession,
		EntityID:   session,
		Payload:    data,
	}
}

func seedJournal(t *testing.T, repo *db.EventRepository, session string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		event := stageEvent(t, models.EventTypeStageEntered, session, models.StagePayload{
			Catalog: "pages",
			StageID: "history",
			Index:   1,
			Action:  "complete",
		})
		require.NoError(t, repo.Create(ctx, event))
	}
}

func TestEventStreamerPollPaginates(t *testing.T) {
	repo := db.NewEventRepository(setupTestDB(t))
	seedJournal(t, repo, "session-a", 5)

	config := DefaultStreamConfig()
	config.BatchSize = 2
	streamer := NewEventStreamer(repo, &bytes.Buffer{}, config)

	ctx := context.Background()
	first, cursor, err := streamer.poll(ctx, "")
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, first[1].ID, cursor)

	second, cursor, err := streamer.poll(ctx, cursor)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.NotEqual(t, first[1].ID, second[0].ID)

	third, next, err := streamer.poll(ctx, cursor)
	require.NoError(t, err)
	require.Len(t, third, 1)

	empty, same, err := streamer.poll(ctx, next)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, next, same)
}

func TestEventStreamerFiltersBySession(t *testing.T) {
	repo := db.NewEventRepository(setupTestDB(t))
	seedJournal(t, repo, "session-a", 2)
	seedJournal(t, repo, "session-b", 3)

	config := DefaultStreamConfig()
	config.SessionID = "session-b"
	streamer := NewEventStreamer(repo, &bytes.Buffer{}, config)

	events, _, err := streamer.poll(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, "session-b", e.EntityID)
	}
}

func TestEventStreamerStreamsNewEvents(t *testing.T) {
	repo := db.NewEventRepository(setupTestDB(t))
	seedJournal(t, repo, "old", 2)

	var buf syncBuffer
	config := DefaultStreamConfig()
	config.PollInterval = 5 * time.Millisecond
	streamer := NewEventStreamer(repo, &buf, config)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- streamer.Stream(ctx) }()

	// Existing events are skipped; only the new one is written.
	time.Sleep(20 * time.Millisecond)
	seedJournal(t, repo, "new", 1)
	require.Eventually(t, func() bool { return strings.Contains(buf.String(), `"new"`) }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Stream did not return after cancel")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var decoded models.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, models.EventTypeStageEntered, decoded.Type)
	assert.Equal(t, "new", decoded.EntityID)
}

func TestEventStreamerIncludeExisting(t *testing.T) {
	repo := db.NewEventRepository(setupTestDB(t))
	seedJournal(t, repo, "old", 3)

	var buf syncBuffer
	config := DefaultStreamConfig()
	config.IncludeExisting = true
	config.PollInterval = 5 * time.Millisecond
	streamer := NewEventStreamer(repo, &buf, config)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, streamer.Stream(ctx))

	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 3)
}

func TestDefaultStreamConfig(t *testing.T) {
	config := DefaultStreamConfig()
	assert.Equal(t, 500*time.Millisecond, config.PollInterval)
	assert.Equal(t, 100, config.BatchSize)
	assert.False(t, config.IncludeExisting)
}

func TestMustBeJSONLForFollow(t *testing.T) {
	useTestGlobals(t)

	tests := []struct {
		name      string
		follow    bool
		jsonl     bool
		wantError bool
	}{
		{"follow without jsonl", true, false, true},
		{"follow with jsonl", true, true, false},
		{"no follow", false, false, false},
		{"no follow with jsonl", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			historyFollow = tt.follow
			jsonlOutput = tt.jsonl

			err := mustBeJSONLForFollow()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalPathRequiresFile(t *testing.T) {
	useTestGlobals(t)

	_, err := journalPath()
	var preflight *PreflightError
	require.True(t, errors.As(err, &preflight))
	assert.Equal(t, "foresight config init", preflight.NextStep)

	appConfig.Journal.Path = "/var/lib/foresight/journal.db"
	path, err := journalPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/foresight/journal.db", path)
}

func TestWriteHistory(t *testing.T) {
	useTestGlobals(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []*models.Event{
		{
			Timestamp:  now.Add(-5 * time.Minute),
			Type:       models.EventTypeAutoPlayStarted,
			EntityType: models.EntityTypeSession,
			EntityID:   "0f8a2c1e-5d6b-4f0e-9a51-0c3b2d1e4f5a",
			Payload:    json.RawMessage(`{"catalog":"pages","stage_id":"pca","cursor":2,"length":7}`),
		},
		{
			Timestamp:  now.Add(-time.Minute),
			Type:       models.EventTypeSequenceReset,
			EntityType: models.EntityTypeSession,
			EntityID:   "0f8a2c1e-5d6b-4f0e-9a51-0c3b2d1e4f5a",
			Payload:    json.RawMessage(`{"catalog":"pages","from_stage":"vqe","completed":6}`),
		},
	}

	var out bytes.Buffer
	require.NoError(t, writeHistory(&out, events, now))
	text := out.String()
	assert.Contains(t, text, "WHEN")
	assert.Contains(t, text, "5 minutes ago")
	assert.Contains(t, text, "autoplay.started")
	assert.Contains(t, text, "pca (3/7)")
	assert.Contains(t, text, "from vqe")
	assert.Contains(t, text, "0f8a2c1e")
	assert.NotContains(t, text, "0f8a2c1e-5d6b")
}

func TestWriteHistoryEmpty(t *testing.T) {
	useTestGlobals(t)

	var out bytes.Buffer
	require.NoError(t, writeHistory(&out, nil, time.Now()))
	assert.Equal(t, "No journal events.\n", out.String())

	jsonOutput = true
	out.Reset()
	require.NoError(t, writeHistory(&out, nil, time.Now()))
	assert.Equal(t, "[]", strings.TrimSpace(out.String()))
}

func TestOpenSessionJournalsTransitions(t *testing.T) {
	useTestGlobals(t)
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "journal.db")
	appConfig.Journal.Enabled = true
	appConfig.Journal.Path = path

	ctx := context.Background()
	s, err := openSession(ctx, builtinCatalog(t, "pages"))
	require.NoError(t, err)
	require.NotNil(t, s.recorder)
	sessionID := s.recorder.SessionID()

	require.NoError(t, s.ctrl.Complete("landing"))
	s.ctrl.Reset()
	s.Close()

	database, err := db.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	repo := db.NewEventRepository(database)

	events, err := loadHistory(ctx, repo, sessionID, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventTypeStageCompleted, events[0].Type)
	assert.Equal(t, models.EventTypeStageEntered, events[1].Type)
	assert.Equal(t, models.EventTypeSequenceReset, events[2].Type)
}

func TestOpenSessionWithoutJournal(t *testing.T) {
	useTestGlobals(t)

	s, err := openSession(context.Background(), builtinCatalog(t, "wizard"))
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.recorder)
	assert.Nil(t, s.journal)
	assert.Equal(t, "data-input", s.ctrl.Snapshot().CurrentStageID)
}
