package service

import (
	"context"
	"errors"
	"sync"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/storage"
)

type fakeUserRepository struct {
	mu    sync.Mutex
	users []domain.User
	// hideExisting makes GetByEmail miss so Create sees the unique index
	hideExisting bool
	listErr      error
}

func (r *fakeUserRepository) Init(context.Context) error { return nil }

func (r *fakeUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.ID = domain.NewID()
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hideExisting {
		for _, u := range r.users {
			if u.Email == email {
				user := u
				return &user, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepository) List(context.Context) ([]domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.User{}, r.users...), nil
}

type fakeEventRepository struct {
	events     []domain.Event
	lastFilter domain.EventFilter
	counts     []domain.EventTypeCount
	activity   []domain.UserActivity
	err        error
}

func (r *fakeEventRepository) Init(context.Context) error { return nil }

func (r *fakeEventRepository) Create(_ context.Context, event *domain.Event) error {
	if r.err != nil {
		return r.err
	}
	event.ID = domain.NewID()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepository) List(_ context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	r.lastFilter = filter
	if r.err != nil {
		return nil, r.err
	}
	return r.events, nil
}

func (r *fakeEventRepository) CountByType(context.Context) ([]domain.EventTypeCount, error) {
	return r.counts, r.err
}

func (r *fakeEventRepository) UserActivity(context.Context) ([]domain.UserActivity, error) {
	return r.activity, r.err
}

type putCall struct {
	body []byte
	opts storage.PutOptions
}

type fakeStorage struct {
	puts       []putCall
	listPrefix string
	objects    []storage.ObjectInfo
	err        error
}

func (s *fakeStorage) PutObject(_ context.Context, body []byte, opts storage.PutOptions) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.puts = append(s.puts, putCall{body: body, opts: opts})
	return storage.Location(opts.Bucket, opts.Key), nil
}

func (s *fakeStorage) ListObjects(_ context.Context, _ string, prefix string) ([]storage.ObjectInfo, error) {
	s.listPrefix = prefix
	return s.objects, s.err
}

var errStoreDown = errors.New("server selection timeout")
