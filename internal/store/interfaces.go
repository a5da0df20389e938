package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key is not found
var ErrNotFound = errors.New("not found")

// Store is the key-value store collaborator behind the cache. All durable
// state lives here; callers hold no state beyond the keys they pass in.
type Store interface {
	// Set writes value under key with overwrite semantics.
	Set(ctx context.Context, key string, value []byte) error

	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Incr atomically increments the integer stored under key by one,
	// initializing it to 0 first if the key is absent, and returns the
	// new value.
	Incr(ctx context.Context, key string) (int64, error)

	// ListPush appends value to the ordered list stored under key.
	ListPush(ctx context.Context, key string, value []byte) error

	// ListRange returns list entries from start to stop inclusive.
	// Negative indexes count from the end, -1 being the last entry.
	ListRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)

	// FlushAll destructively clears the active database.
	FlushAll(ctx context.Context) error

	// Ping checks the store connection.
	Ping(ctx context.Context) error

	// Close releases the store client.
	Close() error
}
