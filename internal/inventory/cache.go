package inventory

import (
	"context"
	"time"
)

// CacheKey is the single well-known key for the inventory listing.
const CacheKey = "inventory:list"

// CacheResult reports how a listing was served, for the X-Cache and
// X-Elapsed-ms response headers and the cache metrics.
type CacheResult struct {
	Hit     bool
	Elapsed time.Duration
}

// ListCache is the read-through cache over the inventory listing. On a miss
// GetOrLoad itself loads from the store and caches the snapshot with an
// absolute expiry; Invalidate removes the entry regardless of remaining TTL
// so the next read is guaranteed to recompute.
//
// Concurrent misses may each reload from the store. That is an accepted
// inefficiency, not a correctness issue: the loads are idempotent reads.
type ListCache interface {
	GetOrLoad(ctx context.Context) ([]Item, CacheResult, error)
	Invalidate(ctx context.Context) error
}
