package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-tracker/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	require.NoError(t, store.Init(context.Background()))
	return store
}

func createUser(t *testing.T, store *Store, name, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: email, Role: domain.RoleMember}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func createEvent(t *testing.T, store *Store, userID string, eventType domain.EventType, at time.Time) *domain.Event {
	t.Helper()
	event := &domain.Event{UserID: userID, EventType: eventType, CreatedAt: at}
	require.NoError(t, store.Events().Create(context.Background(), event))
	return event
}

func TestUserRepositoryCreateAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "Alice", "alice@example.com")
	assert.True(t, domain.ValidID(alice.ID))
	assert.False(t, alice.CreatedAt.IsZero())

	createUser(t, store, "Bob", "bob@example.com")

	users, err := store.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, domain.RoleMember, users[0].Role)

	got, err := store.Users().GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
}

func TestUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createUser(t, store, "Alice", "alice@example.com")

	dup := &domain.User{Name: "Other", Email: "alice@example.com", Role: domain.RoleAdmin}
	err := store.Users().Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Empty(t, dup.ID)

	users, err := store.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Users().GetByEmail(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserRepositoryListEmpty(t *testing.T) {
	store := newTestStore(t)

	users, err := store.Users().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestEventRepositoryMetadataRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := &domain.Event{
		UserID:    domain.NewID(),
		EventType: domain.EventTypeFileUpload,
		Metadata: domain.Metadata{
			"file": "report.pdf",
			"size": float64(2048),
			"tags": []any{"q3", "finance"},
		},
	}
	require.NoError(t, store.Events().Create(ctx, event))

	events, err := store.Events().List(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, event.Metadata, events[0].Metadata)
	assert.Equal(t, event.CreatedAt, events[0].CreatedAt)
}

func TestEventRepositoryListFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	userA := domain.NewID()
	userB := domain.NewID()
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	createEvent(t, store, userA, domain.EventTypeLogin, t1)
	createEvent(t, store, userA, domain.EventTypeLogout, t2)
	createEvent(t, store, userB, domain.EventTypeLogin, t3)

	tests := []struct {
		name   string
		filter domain.EventFilter
		want   int
	}{
		{name: "no filter", filter: domain.EventFilter{}, want: 3},
		{name: "by user", filter: domain.EventFilter{UserID: userA}, want: 2},
		{name: "by type", filter: domain.EventFilter{EventType: domain.EventTypeLogin}, want: 2},
		{name: "user and type", filter: domain.EventFilter{UserID: userA, EventType: domain.EventTypeLogin}, want: 1},
		{name: "start inclusive", filter: domain.EventFilter{StartTime: &t2}, want: 2},
		{name: "end inclusive", filter: domain.EventFilter{EndTime: &t2}, want: 2},
		{name: "closed range", filter: domain.EventFilter{StartTime: &t2, EndTime: &t2}, want: 1},
		{name: "no match", filter: domain.EventFilter{EventType: domain.EventTypeFileDownload}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.Events().List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
			for _, e := range events {
				if tt.filter.StartTime != nil {
					assert.False(t, e.CreatedAt.Before(*tt.filter.StartTime))
				}
				if tt.filter.EndTime != nil {
					assert.False(t, e.CreatedAt.After(*tt.filter.EndTime))
				}
			}
		})
	}
}

func TestEventRepositoryCountByType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := domain.NewID()
	now := domain.Now()

	for i := 0; i < 3; i++ {
		createEvent(t, store, user, domain.EventTypeLogin, now)
	}
	createEvent(t, store, user, domain.EventTypeLogout, now)

	counts, err := store.Events().CountByType(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.EventTypeCount{
		{EventType: domain.EventTypeLogin, Count: 3},
		{EventType: domain.EventTypeLogout, Count: 1},
	}, counts)
}

func TestEventRepositoryUserActivity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "Alice", "alice@example.com")
	bob := createUser(t, store, "Bob", "bob@example.com")
	ghost := domain.NewID()

	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)
	t3 := t1.Add(3 * time.Hour)

	createEvent(t, store, alice.ID, domain.EventTypeLogin, t1)
	createEvent(t, store, alice.ID, domain.EventTypeFileUpload, t2)
	createEvent(t, store, bob.ID, domain.EventTypeLogin, t3)
	createEvent(t, store, ghost, domain.EventTypeLogin, t3.Add(time.Hour))

	activity, err := store.Events().UserActivity(ctx)
	require.NoError(t, err)
	require.Len(t, activity, 2)

	assert.Equal(t, domain.UserActivity{UserID: bob.ID, UserName: "Bob", TotalEvents: 1, LastEventAt: t3}, activity[0])
	assert.Equal(t, domain.UserActivity{UserID: alice.ID, UserName: "Alice", TotalEvents: 2, LastEventAt: t2}, activity[1])
}

func TestStorePing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
