package http

import (
	"time"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/service"
	"activity-tracker/internal/storage"
)

// timeLayout renders timestamps as ISO-8601 UTC with milliseconds.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt string      `json:"createdAt"`
}

type EventResponse struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	EventType domain.EventType `json:"eventType"`
	Metadata  domain.Metadata  `json:"metadata,omitempty"`
	CreatedAt string           `json:"createdAt"`
}

type UserActivityResponse struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	TotalEvents int64  `json:"totalEvents"`
	LastEventAt string `json:"lastEventAt"`
}

type SnapshotResponse struct {
	Key         string `json:"key"`
	Location    string `json:"location"`
	Size        int64  `json:"size"`
	GeneratedAt string `json:"generatedAt"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"lastModified,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: formatTime(user.CreatedAt),
	}
}

func eventToResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:        event.ID,
		UserID:    event.UserID,
		EventType: event.EventType,
		Metadata:  event.Metadata,
		CreatedAt: formatTime(event.CreatedAt),
	}
}

func activityToResponse(a domain.UserActivity) UserActivityResponse {
	return UserActivityResponse{
		UserID:      a.UserID,
		UserName:    a.UserName,
		TotalEvents: a.TotalEvents,
		LastEventAt: formatTime(a.LastEventAt),
	}
}

func snapshotToResponse(s service.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Key:         s.Key,
		Location:    s.Location,
		Size:        s.Size,
		GeneratedAt: formatTime(s.GeneratedAt),
	}
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := formatTime(*obj.LastModified)
		resp.LastModified = &v
	}
	return resp
}
