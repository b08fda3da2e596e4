package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"logitrack/internal/inventory"
	"logitrack/internal/memstore"
)

// countingStore wraps the in-memory store to count loads.
type countingStore struct {
	inventory.Store
	loads int
}

func (s *countingStore) List(ctx context.Context) ([]inventory.Item, error) {
	s.loads++
	return s.Store.List(ctx)
}

type failingStore struct {
	inventory.Store
}

func (s *failingStore) List(context.Context) ([]inventory.Item, error) {
	return nil, errors.New("store unavailable")
}

type MemoryCacheSuite struct {
	suite.Suite
	store *countingStore
	now   time.Time
	cache *Memory
}

func (s *MemoryCacheSuite) SetupTest() {
	s.store = &countingStore{Store: memstore.New().Items()}
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.cache = NewMemory(s.store, 30*time.Second, nil, WithClock(func() time.Time { return s.now }))
}

func TestMemoryCacheSuite(t *testing.T) {
	suite.Run(t, new(MemoryCacheSuite))
}

func (s *MemoryCacheSuite) seedItem(name string) inventory.Item {
	item, err := s.store.Insert(context.Background(), inventory.Item{Name: name, Quantity: 1, Location: "A1"})
	s.Require().NoError(err)
	return item
}

func (s *MemoryCacheSuite) TestMissThenHit() {
	s.seedItem("Pallet")

	items, result, err := s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.False(result.Hit)
	s.Len(items, 1)
	s.Equal(1, s.store.loads)

	items, result, err = s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.True(result.Hit)
	s.Len(items, 1)
	s.Equal(1, s.store.loads, "hit must not reload from the store")
}

func (s *MemoryCacheSuite) TestElapsedUsesInjectedClock() {
	s.seedItem("Pallet")

	// The clock does not advance within a call, so elapsed must be zero on
	// both the miss and the hit path.
	_, result, err := s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.False(result.Hit)
	s.Zero(result.Elapsed)

	_, result, err = s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.True(result.Hit)
	s.Zero(result.Elapsed)
}

func (s *MemoryCacheSuite) TestEntryExpiresAtAbsoluteDeadline() {
	s.seedItem("Pallet")

	_, result, err := s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.False(result.Hit)

	// One tick before the deadline still hits.
	s.now = s.now.Add(30*time.Second - time.Millisecond)
	_, result, err = s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.True(result.Hit)

	// At the deadline the entry is never served again.
	s.now = s.now.Add(time.Millisecond)
	_, result, err = s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.False(result.Hit)
	s.Equal(2, s.store.loads)
}

func (s *MemoryCacheSuite) TestHitDoesNotSlideExpiry() {
	s.seedItem("Pallet")

	_, _, err := s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)

	// Repeated hits inside the window must not extend the deadline.
	for i := 0; i < 3; i++ {
		s.now = s.now.Add(9 * time.Second)
		_, result, err := s.cache.GetOrLoad(context.Background())
		s.Require().NoError(err)
		s.True(result.Hit)
	}

	s.now = s.now.Add(4 * time.Second) // 31s after the load
	_, result, err := s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.False(result.Hit)
}

func (s *MemoryCacheSuite) TestInvalidateForcesRecompute() {
	item := s.seedItem("Pallet")

	_, _, err := s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(context.Background(), item.ID))
	s.Require().NoError(s.cache.Invalidate(context.Background()))

	items, result, err := s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.False(result.Hit)
	s.Empty(items)
}

func (s *MemoryCacheSuite) TestEmptyListIsCacheable() {
	_, result, err := s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.False(result.Hit)

	_, result, err = s.cache.GetOrLoad(context.Background())
	s.Require().NoError(err)
	s.True(result.Hit, "an empty listing is a valid snapshot")
}

func TestMemoryCachePropagatesLoadFailure(t *testing.T) {
	c := NewMemory(&failingStore{}, 30*time.Second, nil)
	_, _, err := c.GetOrLoad(context.Background())
	require.Error(t, err)
}
