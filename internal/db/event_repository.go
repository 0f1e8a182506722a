package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kundanareddy2830/quantum-sight/internal/models"
)

// Journal errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
)

// timestampFormat is fixed width so stored timestamps compare lexically.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

const (
	eventColumns     = `id, timestamp, type, entity_type, entity_id, payload_json, metadata_json`
	defaultPageLimit = 100
)

// EventRepository stores the append-only transition journal.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a repository over db.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventQuery filters a journal read. Nil filters match everything.
type EventQuery struct {
	Type       *models.EventType
	EntityType *models.EntityType
	EntityID   *string
	Since      *time.Time // inclusive
	Until      *time.Time // exclusive

	// Cursor is the id of the last event already seen; results start after it.
	Cursor string
	Limit  int
}

// EventPage is one page of a Query. NextCursor is empty on the last page.
type EventPage struct {
	Events     []*models.Event
	NextCursor string
}

type execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// storedEvent is an events row in column order.
type storedEvent struct {
	id         string
	timestamp  string
	eventType  string
	entityType string
	entityID   string
	payload    sql.NullString
	metadata   sql.NullString
}

func (s *storedEvent) fields() []any {
	return []any{&s.id, &s.timestamp, &s.eventType, &s.entityType, &s.entityID, &s.payload, &s.metadata}
}

// Append validates event and stores it. Validation failures wrap
// ErrInvalidEvent.
func (r *EventRepository) Append(ctx context.Context, event *models.Event) error {
	if event == nil {
		return fmt.Errorf("%w: event is required", ErrInvalidEvent)
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return r.insert(ctx, r.db, event)
}

// Create stores event, filling in a missing id and timestamp.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.insert(ctx, r.db, event)
}

// CreateWithTx stores event inside tx.
func (r *EventRepository) CreateWithTx(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	return r.insert(ctx, tx, event)
}

func (r *EventRepository) insert(ctx context.Context, exec execer, event *models.Event) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	if err := event.Validate(); err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Timestamp = event.Timestamp.UTC()

	row := storedEvent{
		id:         event.ID,
		timestamp:  event.Timestamp.Format(timestampFormat),
		eventType:  string(event.Type),
		entityType: string(event.EntityType),
		entityID:   event.EntityID,
	}
	if len(event.Payload) > 0 {
		row.payload = sql.NullString{String: string(event.Payload), Valid: true}
	}
	if event.Metadata != nil {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode event metadata: %w", err)
		}
		row.metadata = sql.NullString{String: string(data), Valid: true}
	}

	if _, err := exec.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.id, row.timestamp, row.eventType, row.entityType, row.entityID, row.payload, row.metadata,
	); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Get returns the event with id, or ErrEventNotFound.
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return event, err
}

// Query returns events matching q in append order, one page at a time.
func (r *EventRepository) Query(ctx context.Context, q EventQuery) (*EventPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	var where []string
	var args []any
	add := func(clause string, arg any) {
		where = append(where, clause)
		args = append(args, arg)
	}
	if q.Type != nil {
		add(`type = ?`, string(*q.Type))
	}
	if q.EntityType != nil {
		add(`entity_type = ?`, string(*q.EntityType))
	}
	if q.EntityID != nil {
		add(`entity_id = ?`, *q.EntityID)
	}
	if q.Since != nil {
		add(`timestamp >= ?`, q.Since.UTC().Format(timestampFormat))
	}
	if q.Until != nil {
		add(`timestamp < ?`, q.Until.UTC().Format(timestampFormat))
	}
	if q.Cursor != "" {
		add(`seq > (SELECT seq FROM events WHERE id = ?)`, q.Cursor)
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY seq LIMIT ?`
	// One extra row tells whether another page follows.
	args = append(args, limit+1)

	events, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	page := &EventPage{Events: events}
	if len(events) > limit {
		page.Events = events[:limit]
		page.NextCursor = events[limit-1].ID
	}
	return page, nil
}

// ListByEntity returns up to limit events for one entity in append order.
func (r *EventRepository) ListByEntity(ctx context.Context, entityType models.EntityType, entityID string, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events WHERE entity_type = ? AND entity_id = ? ORDER BY seq LIMIT ?`,
		string(entityType), entityID, limit,
	)
}

// Recent returns the newest limit events, oldest first.
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return r.list(ctx, `
		SELECT `+eventColumns+` FROM (
			SELECT seq, `+eventColumns+` FROM events ORDER BY seq DESC LIMIT ?
		) ORDER BY seq
	`, limit)
}

// Count returns the number of journaled events.
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// scan decodes one row. sql.ErrNoRows is returned unwrapped.
func (r *EventRepository) scan(s rowScanner) (*models.Event, error) {
	var row storedEvent
	if err := s.Scan(row.fields()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	event := &models.Event{
		ID:         row.id,
		Type:       models.EventType(row.eventType),
		EntityType: models.EntityType(row.entityType),
		EntityID:   row.entityID,
	}
	if t, err := time.Parse(timestampFormat, row.timestamp); err == nil {
		event.Timestamp = t
	} else {
		r.db.logger.Warn().Err(err).Str("event_id", row.id).Msg("unparseable event timestamp")
	}
	if row.payload.Valid {
		event.Payload = json.RawMessage(row.payload.String)
	}
	if row.metadata.Valid {
		if err := json.Unmarshal([]byte(row.metadata.String), &event.Metadata); err != nil {
			r.db.logger.Warn().Err(err).Str("event_id", row.id).Msg("failed to parse event metadata")
		}
	}
	return event, nil
}
