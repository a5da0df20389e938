package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/devrev/cachetrace/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*Cache, *store.MemoryStore) {
	t.Helper()

	kv := store.NewMemoryStore()
	c, err := New(context.Background(), kv, zap.NewNop())
	require.NoError(t, err)
	return c, kv
}

// pingFailStore simulates an unreachable store at construction time
type pingFailStore struct {
	*store.MemoryStore
}

func (s *pingFailStore) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestNew_FlushesExistingData(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, "leftover", []byte("stale")))

	_, err := New(ctx, kv, zap.NewNop())
	require.NoError(t, err)

	_, err = kv.Get(ctx, "leftover")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNew_ConnectionFailure(t *testing.T) {
	_, err := New(context.Background(), &pingFailStore{store.NewMemoryStore()}, zap.NewNop())
	assert.Error(t, err)
}

func TestCache_StoreReturnsDistinctRandomKeys(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		key, err := c.Store(ctx, Text("data"))
		require.NoError(t, err)

		// Key is UUID text and was never handed out before
		_, err = uuid.Parse(key)
		require.NoError(t, err)
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestCache_StoreAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	key, err := c.Store(ctx, Text("foo"))
	require.NoError(t, err)

	// Without a converter the raw bytes come back unmodified
	raw, err := c.Get(ctx, key, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("foo"), raw)

	text, err := c.GetString(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "foo", text)

	// Non-numeric text fails integer conversion
	_, err = c.GetInt(ctx, key)
	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, key, convErr.Key)
}

func TestCache_StoreInt(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	key, err := c.Store(ctx, Int(42))
	require.NoError(t, err)

	number, err := c.GetInt(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(42), number)

	raw, err := c.Get(ctx, key, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), raw)
}

func TestCache_GetMissingKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	// Missing keys are a no-value result, not an error, and the
	// converter is never invoked
	converterCalled := false
	result, err := c.Get(ctx, "never-written", func(b []byte) (any, error) {
		converterCalled = true
		return string(b), nil
	})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.False(t, converterCalled)

	text, err := c.GetString(ctx, "never-written")
	require.NoError(t, err)
	assert.Equal(t, "", text)

	number, err := c.GetInt(ctx, "never-written")
	require.NoError(t, err)
	assert.Equal(t, int64(0), number)
}

func TestCache_GetIdempotent(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	key, err := c.Store(ctx, Bytes([]byte{0x01, 0x02}))
	require.NoError(t, err)

	first, err := c.Get(ctx, key, nil)
	require.NoError(t, err)
	second, err := c.Get(ctx, key, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCache_GetStringInvalidUTF8(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	key, err := c.Store(ctx, Bytes([]byte{0xFF, 0xFE}))
	require.NoError(t, err)

	_, err = c.GetString(ctx, key)
	var convErr *ConversionError
	assert.ErrorAs(t, err, &convErr)
}

func TestCache_StoreFloat(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	key, err := c.Store(ctx, Float(3.14))
	require.NoError(t, err)

	raw, err := c.Get(ctx, key, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("3.14"), raw)
}
