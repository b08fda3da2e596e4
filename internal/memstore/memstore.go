// Package memstore is the in-memory persistence backend. One store holds
// both tables under a single mutex, so the cross-table rules (an order line
// only commits against a live item, an item only deletes while no line
// references it) are checked in the same critical section as the write.
// Postgres enforces the same rules through its foreign keys.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"logitrack/internal/inventory"
	"logitrack/internal/orders"
	"logitrack/pkg/platform/sentinel"
)

// Store is the shared core. Use Items() and Orders() for the typed views;
// the two Delete operations differ in meaning, so the views keep the
// interfaces apart while every method runs under the one lock.
type Store struct {
	mu sync.RWMutex

	nextItemID int64
	items      map[int64]inventory.Item

	nextOrderID int64
	nextLineID  int64
	orders      []orders.Order
	orderIndex  map[int64]int
}

func New() *Store {
	return &Store{
		items:      make(map[int64]inventory.Item),
		orderIndex: make(map[int64]int),
	}
}

// Items returns the inventory.Store view.
func (s *Store) Items() *ItemStore {
	return &ItemStore{s: s}
}

// Orders returns the orders.Store view.
func (s *Store) Orders() *OrderStore {
	return &OrderStore{s: s}
}

// ItemStore implements inventory.Store over the shared core.
type ItemStore struct {
	s *Store
}

func (v *ItemStore) Insert(_ context.Context, item inventory.Item) (inventory.Item, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextItemID++
	item.ID = s.nextItemID
	s.items[item.ID] = item
	return item, nil
}

// Delete removes an item unless order lines still reference it. The
// reference check holds the same lock as the removal, so a concurrent order
// create cannot slip a new line in between.
func (v *ItemStore) Delete(_ context.Context, id int64) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return sentinel.ErrNotFound
	}
	if s.itemReferencedLocked(id) {
		return sentinel.ErrReferenced
	}
	delete(s.items, id)
	return nil
}

func (v *ItemStore) List(_ context.Context) ([]inventory.Item, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]inventory.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (v *ItemStore) ExistingIDs(_ context.Context, ids []int64) (map[int64]bool, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	existing := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.items[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (v *ItemStore) NamesByIDs(_ context.Context, ids []int64) (map[int64]string, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			names[id] = item.Name
		}
	}
	return names, nil
}

func (v *ItemStore) UpdateName(_ context.Context, id int64, name string) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	item.Name = name
	s.items[id] = item
	return nil
}

// OrderStore implements orders.Store over the shared core.
type OrderStore struct {
	s *Store
}

// Create commits the header and all lines in one critical section. Every
// line's item must still exist at commit time; a failed check leaves
// nothing behind.
func (v *OrderStore) Create(_ context.Context, order orders.Order) (int64, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range order.Lines {
		if _, ok := s.items[line.ItemID]; !ok {
			return 0, fmt.Errorf("order line item %d: %w", line.ItemID, sentinel.ErrNotFound)
		}
	}

	s.nextOrderID++
	order.ID = s.nextOrderID
	for i := range order.Lines {
		s.nextLineID++
		order.Lines[i].ID = s.nextLineID
		order.Lines[i].OrderID = order.ID
	}

	s.orderIndex[order.ID] = len(s.orders)
	s.orders = append(s.orders, order)
	return order.ID, nil
}

func (v *OrderStore) FindByID(_ context.Context, id int64) (orders.Order, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.orderIndex[id]
	if !ok {
		return orders.Order{}, sentinel.ErrNotFound
	}
	return cloneOrder(s.orders[idx]), nil
}

func (v *OrderStore) ListAll(_ context.Context) ([]orders.Order, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]orders.Order, 0, len(s.orders))
	for _, order := range s.orders {
		out = append(out, cloneOrder(order))
	}
	// Stable sort over the insertion-ordered slice keeps ties deterministic.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlacedAt.After(out[j].PlacedAt)
	})
	return out, nil
}

func (v *OrderStore) Delete(_ context.Context, id int64) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.orderIndex[id]
	if !ok {
		return sentinel.ErrNotFound
	}

	s.orders = append(s.orders[:idx], s.orders[idx+1:]...)
	delete(s.orderIndex, id)
	for i := idx; i < len(s.orders); i++ {
		s.orderIndex[s.orders[i].ID] = i
	}
	return nil
}

func (v *OrderStore) HasLinesForItem(_ context.Context, itemID int64) (bool, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemReferencedLocked(itemID), nil
}

// itemReferencedLocked requires s.mu to be held.
func (s *Store) itemReferencedLocked(itemID int64) bool {
	for _, order := range s.orders {
		for _, line := range order.Lines {
			if line.ItemID == itemID {
				return true
			}
		}
	}
	return false
}

func cloneOrder(order orders.Order) orders.Order {
	order.Lines = append([]orders.Line{}, order.Lines...)
	return order
}
