package domain

import "time"

type EventType string

const (
	EventTypeLogin        EventType = "login"
	EventTypeLogout       EventType = "logout"
	EventTypeFileUpload   EventType = "file_upload"
	EventTypeFileDownload EventType = "file_download"
)

// EventTypes lists every accepted event type.
var EventTypes = []EventType{
	EventTypeLogin,
	EventTypeLogout,
	EventTypeFileUpload,
	EventTypeFileDownload,
}

func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Metadata is a free-form payload attached to an event. Values keep
// whatever shape the client sent.
type Metadata map[string]any

// Event is a single user action recorded by the tracker.
type Event struct {
	ID        string
	UserID    string
	EventType EventType
	Metadata  Metadata
	CreatedAt time.Time
}

// EventFilter narrows an event listing. Nil or empty fields are ignored;
// the time bounds are inclusive.
type EventFilter struct {
	UserID    string
	EventType EventType
	StartTime *time.Time
	EndTime   *time.Time
}

// IsEmpty reports whether the filter matches every event.
func (f EventFilter) IsEmpty() bool {
	return f.UserID == "" && f.EventType == "" && f.StartTime == nil && f.EndTime == nil
}

// UserActivity aggregates the events of one existing user.
type UserActivity struct {
	UserID      string
	UserName    string
	TotalEvents int64
	LastEventAt time.Time
}

// EventTypeCount is one row of the events summary.
type EventTypeCount struct {
	EventType EventType
	Count     int64
}
