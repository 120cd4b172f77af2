package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/metrics"
	"activity-tracker/internal/repository"
)

// CreateEventInput carries the fields accepted when recording an event.
type CreateEventInput struct {
	UserID    string
	EventType string
	Metadata  domain.Metadata
}

// ListEventsParams holds the raw query filters. Empty values are ignored.
type ListEventsParams struct {
	UserID    string
	EventType string
	StartTime string
	EndTime   string
}

// EventService records and queries events.
type EventService interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*domain.Event, error)
	ListEvents(ctx context.Context, params ListEventsParams) ([]domain.Event, error)
}

type eventService struct {
	events repository.EventRepository
}

func NewEventService(events repository.EventRepository) EventService {
	return &eventService{events: events}
}

func (s *eventService) CreateEvent(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	userID := strings.TrimSpace(in.UserID)
	if !domain.ValidID(userID) {
		return nil, domain.NewValidationError("userId", "Invalid User ID")
	}
	eventType, err := parseEventType(in.EventType)
	if err != nil {
		return nil, err
	}
	if eventType == "" {
		return nil, domain.NewValidationError("eventType", "eventType is required")
	}

	event := &domain.Event{
		UserID:    userID,
		EventType: eventType,
		Metadata:  in.Metadata,
		CreatedAt: domain.Now(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	metrics.EventsRecorded.WithLabelValues(string(event.EventType)).Inc()
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, params ListEventsParams) ([]domain.Event, error) {
	filter, err := buildEventFilter(params)
	if err != nil {
		return nil, err
	}

	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func buildEventFilter(params ListEventsParams) (domain.EventFilter, error) {
	var filter domain.EventFilter

	if userID := strings.TrimSpace(params.UserID); userID != "" {
		if !domain.ValidID(userID) {
			return filter, domain.NewValidationError("userId", "Invalid User ID")
		}
		filter.UserID = userID
	}

	eventType, err := parseEventType(params.EventType)
	if err != nil {
		return filter, err
	}
	filter.EventType = eventType

	if filter.StartTime, err = parseTimeBound("startTime", params.StartTime); err != nil {
		return filter, err
	}
	if filter.EndTime, err = parseTimeBound("endTime", params.EndTime); err != nil {
		return filter, err
	}
	return filter, nil
}

// parseEventType returns "" for blank input and rejects unknown types.
func parseEventType(raw string) (domain.EventType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	eventType := domain.EventType(raw)
	if !eventType.Valid() {
		return "", domain.NewValidationError("eventType", "eventType must be one of login, logout, file_upload, file_download")
	}
	return eventType, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimeBound accepts RFC 3339 timestamps or bare dates. Values without
// a zone are taken as UTC.
func parseTimeBound(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, "%s must be an RFC 3339 timestamp or YYYY-MM-DD date", field)
}
