// Package mongodb implements the repositories on top of a MongoDB
// deployment.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"activity-tracker/internal/repository"
)

const (
	usersCollection  = "users"
	eventsCollection = "events"
)

// ObserveFunc receives the outcome of every command sent to the server.
type ObserveFunc func(command string, duration time.Duration, failed bool)

// Config describes how to reach the deployment.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	Observe        ObserveFunc
}

// Store owns the client connection and the repositories built on it.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	users  *UserRepository
	events *EventRepository
}

// Open connects to the deployment and verifies it answers a ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb database name is required")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if cfg.Observe != nil {
		opts.SetMonitor(commandMonitor(cfg.Observe))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return NewStore(client, cfg.Database), nil
}

// NewStore wraps an already connected client.
func NewStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client: client,
		db:     db,
		users:  NewUserRepository(db),
		events: NewEventRepository(db),
	}
}

func (s *Store) Users() repository.UserRepository   { return s.users }
func (s *Store) Events() repository.EventRepository { return s.events }

func (s *Store) Init(ctx context.Context) error {
	if err := s.users.Init(ctx); err != nil {
		return err
	}
	return s.events.Init(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)

func commandMonitor(observe ObserveFunc) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			observe(e.CommandName, e.Duration, false)
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			observe(e.CommandName, e.Duration, true)
		},
	}
}
