package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore implements Store for Redis
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore creates a new Redis-backed store. A connection failure is
// fatal: the constructor pings the server and returns the error untranslated.
func NewRedisStore(host string, port int, password string, db int, logger *zap.Logger) (*RedisStore, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", addr),
		zap.Int("db", db))

	return &RedisStore{
		client: client,
		logger: logger,
	}, nil
}

// Set writes value under key, overwriting any previous value
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// Get returns the bytes stored under key
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Incr atomically increments the counter stored under key
func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// ListPush appends value to the list stored under key
func (s *RedisStore) ListPush(ctx context.Context, key string, value []byte) error {
	return s.client.RPush(ctx, key, value).Err()
}

// ListRange returns list entries from start to stop inclusive
func (s *RedisStore) ListRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	entries, err := s.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}

	result := make([][]byte, len(entries))
	for i, entry := range entries {
		result[i] = []byte(entry)
	}
	return result, nil
}

// FlushAll destructively clears the active database
func (s *RedisStore) FlushAll(ctx context.Context) error {
	s.logger.Warn("Flushing Redis database, all existing data will be lost")
	return s.client.FlushDB(ctx).Err()
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
