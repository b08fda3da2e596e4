// Package cache provides the read-through implementations of the inventory
// listing cache: an in-process one and a Redis-backed one for multi-instance
// deployments.
package cache

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"logitrack/internal/inventory"
	"logitrack/internal/platform/metrics"
)

var tracer = otel.Tracer("logitrack/inventory/cache")

// clock is overridable in tests to drive expiry deterministically.
type clock func() time.Time

// Memory is the in-process listing cache. A single entry with an absolute
// expiry timestamp; reads never extend it.
type Memory struct {
	store   inventory.Store
	ttl     time.Duration
	metrics *metrics.Metrics
	now     clock

	mu      sync.RWMutex
	entry   []inventory.Item
	valid   bool
	expires time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *Memory) { c.now = now }
}

// NewMemory constructs the in-process cache over the given store.
func NewMemory(store inventory.Store, ttl time.Duration, m *metrics.Metrics, opts ...MemoryOption) *Memory {
	c := &Memory{
		store:   store,
		ttl:     ttl,
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Memory) GetOrLoad(ctx context.Context) ([]inventory.Item, inventory.CacheResult, error) {
	start := c.now()

	c.mu.RLock()
	entry, valid, expires := c.entry, c.valid, c.expires
	c.mu.RUnlock()

	if valid && start.Before(expires) {
		result := inventory.CacheResult{Hit: true, Elapsed: c.now().Sub(start)}
		c.metrics.RecordCacheHit(result.Elapsed)
		return entry, result, nil
	}

	ctx, span := tracer.Start(ctx, "cache.load")
	span.SetAttributes(attribute.String("cache.key", inventory.CacheKey))
	defer span.End()

	items, err := c.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, inventory.CacheResult{}, err
	}

	c.mu.Lock()
	c.entry = items
	c.valid = true
	c.expires = c.now().Add(c.ttl)
	c.mu.Unlock()

	result := inventory.CacheResult{Hit: false, Elapsed: c.now().Sub(start)}
	c.metrics.RecordCacheMiss(result.Elapsed)
	return items, result, nil
}

func (c *Memory) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.entry = nil
	c.valid = false
	c.expires = time.Time{}
	c.mu.Unlock()
	return nil
}
