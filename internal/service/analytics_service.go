package service

import (
	"context"
	"fmt"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/repository"
)

// AnalyticsService computes aggregate reports over recorded events.
type AnalyticsService interface {
	// EventsSummary maps each observed event type to its count.
	EventsSummary(ctx context.Context) (map[domain.EventType]int64, error)
	UserActivity(ctx context.Context) ([]domain.UserActivity, error)
}

type analyticsService struct {
	events repository.EventRepository
}

func NewAnalyticsService(events repository.EventRepository) AnalyticsService {
	return &analyticsService{events: events}
}

func (s *analyticsService) EventsSummary(ctx context.Context) (map[domain.EventType]int64, error) {
	counts, err := s.events.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("events summary: %w", err)
	}

	summary := make(map[domain.EventType]int64, len(counts))
	for _, c := range counts {
		summary[c.EventType] = c.Count
	}
	return summary, nil
}

func (s *analyticsService) UserActivity(ctx context.Context) ([]domain.UserActivity, error) {
	activity, err := s.events.UserActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("user activity: %w", err)
	}
	if activity == nil {
		activity = []domain.UserActivity{}
	}
	return activity, nil
}
