package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryStore implements Store using in-memory maps. It mirrors the Redis
// keyspace behavior closely enough for tests: counters share the string
// keyspace and are stored as decimal text, so Get on a counter key returns
// the same bytes Redis would.
type MemoryStore struct {
	data  map[string][]byte
	lists map[string][][]byte
	mu    sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]byte),
		lists: make(map[string][][]byte),
	}
}

// Set writes value under key, overwriting any previous value
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so later caller mutations don't leak into the store
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Get returns the bytes stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.data[key]
	if !exists {
		return nil, ErrNotFound
	}

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Incr atomically increments the counter stored under key
func (s *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if raw, exists := s.data[key]; exists {
		parsed, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value at %q is not an integer: %w", key, err)
		}
		current = parsed
	}

	current++
	s.data[key] = []byte(strconv.FormatInt(current, 10))
	return current, nil
}

// ListPush appends value to the list stored under key
func (s *MemoryStore) ListPush(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.lists[key] = append(s.lists[key], stored)
	return nil
}

// ListRange returns list entries from start to stop inclusive
func (s *MemoryStore) ListRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.lists[key]
	length := int64(len(list))

	if start < 0 {
		start += length
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop += length
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || start >= length {
		return [][]byte{}, nil
	}

	result := make([][]byte, 0, stop-start+1)
	for _, entry := range list[start : stop+1] {
		copied := make([]byte, len(entry))
		copy(copied, entry)
		result = append(result, copied)
	}
	return result, nil
}

// FlushAll destructively clears the active database
func (s *MemoryStore) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)
	s.lists = make(map[string][][]byte)
	return nil
}

// Ping checks the store connection
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close releases the store client
func (s *MemoryStore) Close() error {
	return nil
}

// Size returns the number of string keys in the store
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
