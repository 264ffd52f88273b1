package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// EventRepository stores and fetches lifecycle events. Timestamps are
// persisted as RFC3339 UTC strings so range queries can compare
// lexicographically.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert records an event. Replays of the same (session, type,
// timestamp) triple hit the dedupe index and are silently ignored.
func (r *EventRepository) Insert(ctx context.Context, event *domain.Event) error {
	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, project, timestamp, machine, agent, session_id, event_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, event_type, timestamp) DO NOTHING
	`,
		id,
		event.Project,
		event.Timestamp.UTC().Format(time.RFC3339),
		event.Machine,
		event.Agent,
		event.SessionID,
		string(event.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListRange returns events with from <= timestamp < to.
func (r *EventRepository) ListRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project, timestamp, machine, agent, session_id, event_type
		FROM events
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp
	`, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListSince returns events recorded at or after since.
func (r *EventRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project, timestamp, machine, agent, session_id, event_type
		FROM events
		WHERE timestamp >= ?
		ORDER BY timestamp
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByProject returns one project's events at or after since.
func (r *EventRepository) ListByProject(ctx context.Context, project string, since time.Time) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project, timestamp, machine, agent, session_id, event_type
		FROM events
		WHERE project = ? AND timestamp >= ?
		ORDER BY timestamp
	`, project, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to list events for project %s: %w", project, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var timestamp, eventType string
		if err := rows.Scan(&e.ID, &e.Project, &timestamp, &e.Machine, &e.Agent, &e.SessionID, &eventType); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		ts, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp %q: %w", timestamp, err)
		}
		e.Timestamp = ts
		e.Type = domain.EventType(eventType)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
