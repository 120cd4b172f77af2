package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/storage"
)

// ErrSnapshotsDisabled is returned when no bucket is configured.
var ErrSnapshotsDisabled = errors.New("snapshot storage not configured")

// Snapshot describes an archived analytics report.
type Snapshot struct {
	Key         string
	Location    string
	Size        int64
	GeneratedAt time.Time
}

// SnapshotService archives analytics reports to object storage.
type SnapshotService interface {
	CreateSnapshot(ctx context.Context) (*Snapshot, error)
	ListSnapshots(ctx context.Context) ([]storage.ObjectInfo, error)
}

type snapshotService struct {
	analytics AnalyticsService
	store     storage.Service
	bucket    string
	keyPrefix string
	now       func() time.Time
}

func NewSnapshotService(analytics AnalyticsService, store storage.Service, bucket, keyPrefix string) SnapshotService {
	return &snapshotService{
		analytics: analytics,
		store:     store,
		bucket:    strings.TrimSpace(bucket),
		keyPrefix: strings.Trim(keyPrefix, "/"),
		now:       domain.Now,
	}
}

type snapshotDocument struct {
	GeneratedAt   time.Time                  `json:"generatedAt"`
	EventsSummary map[domain.EventType]int64 `json:"eventsSummary"`
	UserActivity  []snapshotActivity         `json:"userActivity"`
}

type snapshotActivity struct {
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	TotalEvents int64     `json:"totalEvents"`
	LastEventAt time.Time `json:"lastEventAt"`
}

func (s *snapshotService) enabled() bool {
	return s.store != nil && s.bucket != ""
}

func (s *snapshotService) CreateSnapshot(ctx context.Context) (*Snapshot, error) {
	if !s.enabled() {
		return nil, ErrSnapshotsDisabled
	}

	summary, err := s.analytics.EventsSummary(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.analytics.UserActivity(ctx)
	if err != nil {
		return nil, err
	}

	doc := snapshotDocument{
		GeneratedAt:   s.now(),
		EventsSummary: summary,
		UserActivity:  make([]snapshotActivity, len(activity)),
	}
	for i, a := range activity {
		doc.UserActivity[i] = snapshotActivity{
			UserID:      a.UserID,
			UserName:    a.UserName,
			TotalEvents: a.TotalEvents,
			LastEventAt: a.LastEventAt,
		}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := s.objectKey(doc.GeneratedAt)
	location, err := s.store.PutObject(ctx, body, storage.PutOptions{
		Bucket:      s.bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	return &Snapshot{
		Key:         key,
		Location:    location,
		Size:        int64(len(body)),
		GeneratedAt: doc.GeneratedAt,
	}, nil
}

func (s *snapshotService) ListSnapshots(ctx context.Context) ([]storage.ObjectInfo, error) {
	if !s.enabled() {
		return nil, ErrSnapshotsDisabled
	}
	prefix := s.keyPrefix
	if prefix != "" {
		prefix += "/"
	}
	objects, err := s.store.ListObjects(ctx, s.bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return objects, nil
}

func (s *snapshotService) objectKey(at time.Time) string {
	return path.Join(s.keyPrefix, at.UTC().Format("2006/01/02"), uuid.NewString()+".json")
}
