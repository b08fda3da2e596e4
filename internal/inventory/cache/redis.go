package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"logitrack/internal/inventory"
	"logitrack/internal/platform/metrics"
)

// Redis caches the inventory listing as a JSON payload under one key with a
// server-side TTL, so the absolute expiry holds across instances. Load
// failures propagate as store failures: a miss always re-reads the store.
type Redis struct {
	client  *redis.Client
	store   inventory.Store
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewRedis(client *redis.Client, store inventory.Store, ttl time.Duration, m *metrics.Metrics) *Redis {
	return &Redis{
		client:  client,
		store:   store,
		ttl:     ttl,
		metrics: m,
	}
}

func (c *Redis) GetOrLoad(ctx context.Context) ([]inventory.Item, inventory.CacheResult, error) {
	start := time.Now()

	payload, err := c.client.Get(ctx, inventory.CacheKey).Bytes()
	if err == nil {
		var items []inventory.Item
		if unmarshalErr := json.Unmarshal(payload, &items); unmarshalErr == nil {
			result := inventory.CacheResult{Hit: true, Elapsed: time.Since(start)}
			c.metrics.RecordCacheHit(result.Elapsed)
			return items, result, nil
		}
		// A corrupt payload falls through to a reload; the SET below repairs it.
	} else if !errors.Is(err, redis.Nil) {
		return nil, inventory.CacheResult{}, fmt.Errorf("cache get: %w", err)
	}

	ctx, span := tracer.Start(ctx, "cache.load")
	defer span.End()

	items, err := c.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, inventory.CacheResult{}, err
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, inventory.CacheResult{}, fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, inventory.CacheKey, encoded, c.ttl).Err(); err != nil {
		return nil, inventory.CacheResult{}, fmt.Errorf("cache set: %w", err)
	}

	result := inventory.CacheResult{Hit: false, Elapsed: time.Since(start)}
	c.metrics.RecordCacheMiss(result.Elapsed)
	return items, result, nil
}

func (c *Redis) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, inventory.CacheKey).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
