// Package trace decorates cache operations with persistent call counting
// and call history, both kept in the same key-value store the cache writes
// to, and renders recorded history back as text.
//
// Wrapping is explicit composition: each decorator takes the next operation
// and returns a new one, and the fully wrapped operation is bound once, in
// NewTracedCache, around the unwrapped base. The wrapped operation never
// dispatches back through itself.
package trace

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/devrev/cachetrace/internal/cache"
	"github.com/devrev/cachetrace/internal/metrics"
	"github.com/devrev/cachetrace/internal/store"
	"go.uber.org/zap"
)

// StoreOpName is the fully-qualified name traced store calls are recorded
// under by default.
const StoreOpName = "Cache.Store"

// StoreOp is the shape of the operation being decorated: the cache's store
// call, from a value to the key it was written under.
type StoreOp func(ctx context.Context, data cache.Value) (string, error)

// InputsKey returns the store key of the input history log for an operation
func InputsKey(name string) string {
	return name + ":inputs"
}

// OutputsKey returns the store key of the output history log for an operation
func OutputsKey(name string) string {
	return name + ":outputs"
}

// CountCalls returns a StoreOp that increments the persistent counter keyed
// by name, then delegates to next. The increment happens before the wrapped
// call and is not rolled back if the call fails afterwards. An increment
// failure propagates without invoking next.
func CountCalls(kv store.Store, name string, next StoreOp) StoreOp {
	return func(ctx context.Context, data cache.Value) (string, error) {
		if _, err := kv.Incr(ctx, name); err != nil {
			return "", fmt.Errorf("failed to count call to %s: %w", name, err)
		}
		return next(ctx, data)
	}
}

// RecordHistory returns a StoreOp that appends the call's argument
// representation to the operation's input log, delegates to next, and
// appends the result to the output log. The output append only happens
// when the call succeeds; a failed call leaves its input entry without a
// paired output and the error propagates.
func RecordHistory(kv store.Store, name string, next StoreOp) StoreOp {
	return func(ctx context.Context, data cache.Value) (string, error) {
		input := "(" + data.String() + ")"
		if err := kv.ListPush(ctx, InputsKey(name), []byte(input)); err != nil {
			return "", fmt.Errorf("failed to record input for %s: %w", name, err)
		}

		output, err := next(ctx, data)
		if err != nil {
			return "", err
		}

		if err := kv.ListPush(ctx, OutputsKey(name), []byte(output)); err != nil {
			return "", fmt.Errorf("failed to record output for %s: %w", name, err)
		}
		return output, nil
	}
}

// TracedCache wraps a cache so that every store call updates a persistent
// call counter and paired input/output history logs. Reads pass through to
// the underlying cache untouched.
type TracedCache struct {
	*cache.Cache

	kv      store.Store
	op      StoreOp
	opName  string
	strict  bool
	mu      sync.Mutex
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTracedCache composes the history and counting decorators around the
// unwrapped base store operation of c, recorded under name (StoreOpName
// when empty). With strict pairing enabled, a per-operation lock serializes
// wrapped calls so the two history logs stay position-aligned under
// concurrent callers; without it the two appends can interleave across
// calls. m may be nil to disable Prometheus instrumentation.
func NewTracedCache(
	c *cache.Cache,
	kv store.Store,
	name string,
	strict bool,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TracedCache {
	if name == "" {
		name = StoreOpName
	}

	return &TracedCache{
		Cache:   c,
		kv:      kv,
		op:      RecordHistory(kv, name, CountCalls(kv, name, c.Store)),
		opName:  name,
		strict:  strict,
		metrics: m,
		logger:  logger,
	}
}

// OperationName returns the name the traced store operation is recorded under
func (t *TracedCache) OperationName() string {
	return t.opName
}

// Store runs the fully wrapped store operation: input append, counter
// increment, the underlying write, then output append. The result and any
// error are returned unchanged from the underlying cache.
func (t *TracedCache) Store(ctx context.Context, data cache.Value) (string, error) {
	start := time.Now()

	if t.strict {
		t.mu.Lock()
	}
	key, err := t.op(ctx, data)
	if t.strict {
		t.mu.Unlock()
	}

	if t.metrics != nil {
		t.metrics.CallsTotal.WithLabelValues(t.opName).Inc()
		t.metrics.CallDuration.WithLabelValues(t.opName).Observe(time.Since(start).Seconds())
		if err != nil {
			t.metrics.CallErrorsTotal.WithLabelValues(t.opName).Inc()
		} else {
			t.metrics.HistoryAppendsTotal.Add(2)
		}
	}

	if err != nil {
		t.logger.Debug("Traced store call failed",
			zap.String("operation", t.opName),
			zap.Error(err))
		return "", err
	}

	t.logger.Debug("Traced store call recorded",
		zap.String("operation", t.opName),
		zap.String("key", key))

	return key, nil
}

// Replay renders the recorded history of this cache's store operation to w
func (t *TracedCache) Replay(ctx context.Context, w io.Writer) error {
	if err := Replay(ctx, t.kv, t.opName, w); err != nil {
		return err
	}
	if t.metrics != nil {
		t.metrics.ReplaysTotal.Inc()
	}
	return nil
}
