package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/repository"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	metadata TEXT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id);
CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type);
CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at);
`

const selectEventColumns = `SELECT id, user_id, event_type, metadata, created_at FROM events`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = domain.Now()
	}
	metadata, err := encodeMetadata(event.Metadata)
	if err != nil {
		return err
	}
	id := domain.NewID()

	_, err = r.db.ExecContext(ctx, `
INSERT INTO events (id, user_id, event_type, metadata, created_at)
VALUES (?, ?, ?, ?, ?)`,
		id,
		event.UserID,
		string(event.EventType),
		metadata,
		toMillis(event.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	event.ID = id
	return nil
}

func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	where, args := eventWhere(filter)
	query := selectEventColumns + where + ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

func (r *EventRepository) CountByType(ctx context.Context) ([]domain.EventTypeCount, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT event_type, COUNT(*)
FROM events
GROUP BY event_type
ORDER BY event_type`)
	if err != nil {
		return nil, fmt.Errorf("count events by type: %w", err)
	}
	defer rows.Close()

	counts := []domain.EventTypeCount{}
	for rows.Next() {
		var (
			eventType string
			count     int64
		)
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		counts = append(counts, domain.EventTypeCount{EventType: domain.EventType(eventType), Count: count})
	}

	return counts, rows.Err()
}

func (r *EventRepository) UserActivity(ctx context.Context) ([]domain.UserActivity, error) {
	// the inner join drops groups whose user is missing
	rows, err := r.db.QueryContext(ctx, `
SELECT e.user_id, u.name, COUNT(*) AS total_events, MAX(e.created_at) AS last_event_at
FROM events e
JOIN users u ON u.id = e.user_id
GROUP BY e.user_id, u.name
ORDER BY last_event_at DESC, e.user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query user activity: %w", err)
	}
	defer rows.Close()

	activity := []domain.UserActivity{}
	for rows.Next() {
		var (
			item   domain.UserActivity
			lastAt int64
		)
		if err := rows.Scan(&item.UserID, &item.UserName, &item.TotalEvents, &lastAt); err != nil {
			return nil, fmt.Errorf("scan user activity: %w", err)
		}
		item.LastEventAt = fromMillis(lastAt)
		activity = append(activity, item)
	}

	return activity, rows.Err()
}

func eventWhere(filter domain.EventFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.EventType != "" {
		clauses = append(clauses, "event_type = ?")
		args = append(args, string(filter.EventType))
	}
	if filter.StartTime != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, toMillis(*filter.StartTime))
	}
	if filter.EndTime != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, toMillis(*filter.EndTime))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanEvent(scanner interface {
	Scan(dest ...any) error
}) (*domain.Event, error) {
	var (
		event     domain.Event
		eventType string
		metadata  sql.NullString
		createdAt int64
	)
	if err := scanner.Scan(
		&event.ID,
		&event.UserID,
		&eventType,
		&metadata,
		&createdAt,
	); err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}

	event.EventType = domain.EventType(eventType)
	event.CreatedAt = fromMillis(createdAt)
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &event.Metadata); err != nil {
			return nil, fmt.Errorf("decode event metadata: %w", err)
		}
	}
	return &event, nil
}

func encodeMetadata(metadata domain.Metadata) (any, error) {
	if metadata == nil {
		return nil, nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode event metadata: %w", err)
	}
	return string(b), nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
