package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"activity-tracker/internal/repository"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
func Open(path string) (*sql.DB, error) {
	if path != MemoryPath && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// a single connection serialises writers and keeps :memory: databases alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Store bundles the sqlite-backed repositories around one handle.
type Store struct {
	db     *sql.DB
	users  *UserRepository
	events *EventRepository
}

// NewStore opens the database at path and builds its repositories.
func NewStore(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:     db,
		users:  &UserRepository{db: db},
		events: &EventRepository{db: db},
	}, nil
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
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

var _ repository.Store = (*Store)(nil)
