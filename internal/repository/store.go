package repository

import "context"

// Store is an opened backing database together with its repositories.
type Store interface {
	Users() UserRepository
	Events() EventRepository
	// Init prepares collections, tables and indexes.
	Init(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
