// Package cache provides a small cache façade over an external key-value
// store. Values are written under fresh random keys and read back with
// optional typed conversion; all durable state lives in the store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/devrev/cachetrace/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Converter transforms raw bytes read from the store into a typed result
type Converter func([]byte) (any, error)

// ConversionError reports a converter failing against retrieved bytes
type ConversionError struct {
	Key string
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert value at %q: %v", e.Key, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Cache stores values in an external key-value store under random keys
type Cache struct {
	kv     store.Store
	logger *zap.Logger
}

// New creates a new cache over kv. Construction verifies the store
// connection and flushes the active database: any data previously held in
// that database is irrecoverably lost. A connection failure propagates.
func New(ctx context.Context, kv store.Store, logger *zap.Logger) (*Cache, error) {
	if err := kv.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	if err := kv.FlushAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to flush store: %w", err)
	}

	logger.Info("Cache initialized, store flushed")

	return &Cache{
		kv:     kv,
		logger: logger,
	}, nil
}

// Store writes data under a fresh random key and returns the key. The
// write is synchronous: the key is returned only after the store has
// acknowledged it. Store errors propagate untranslated. Key collisions are
// treated as negligible; there is no retry.
func (c *Cache) Store(ctx context.Context, data Value) (string, error) {
	key := uuid.New().String()

	if err := c.kv.Set(ctx, key, data.Encode()); err != nil {
		return "", err
	}

	c.logger.Debug("Stored value",
		zap.String("key", key),
		zap.String("kind", data.Kind().String()))

	return key, nil
}

// Get retrieves the bytes stored under key, applying fn when supplied.
// A missing key returns (nil, nil) and fn is never invoked. Converter
// failures surface as *ConversionError.
func (c *Cache) Get(ctx context.Context, key string, fn Converter) (any, error) {
	value, err := c.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if fn == nil {
		return value, nil
	}

	converted, err := fn(value)
	if err != nil {
		return nil, &ConversionError{Key: key, Err: err}
	}
	return converted, nil
}

// GetString retrieves the value under key decoded as UTF-8 text. A missing
// key returns the empty string with a nil error.
func (c *Cache) GetString(ctx context.Context, key string) (string, error) {
	result, err := c.Get(ctx, key, func(b []byte) (any, error) {
		if !utf8.Valid(b) {
			return nil, errors.New("value is not valid UTF-8")
		}
		return string(b), nil
	})
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return result.(string), nil
}

// GetInt retrieves the value under key parsed as a base-10 integer. A
// missing key returns zero with a nil error.
func (c *Cache) GetInt(ctx context.Context, key string) (int64, error) {
	result, err := c.Get(ctx, key, func(b []byte) (any, error) {
		return strconv.ParseInt(string(b), 10, 64)
	})
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, nil
	}
	return result.(int64), nil
}
