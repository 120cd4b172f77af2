package repository

import (
	"context"

	"activity-tracker/internal/domain"
)

// EventRepository exposes persistence and aggregation for events.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.Event) error
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	// CountByType groups all events by type. Types never seen are absent.
	CountByType(ctx context.Context) ([]domain.EventTypeCount, error)
	// UserActivity groups events per user and joins the user's name.
	// Groups whose user does not exist are dropped.
	UserActivity(ctx context.Context) ([]domain.UserActivity, error)
}
