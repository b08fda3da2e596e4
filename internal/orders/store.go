package orders

import "context"

// Store persists order aggregates. Implementations must return
// sentinel.ErrNotFound for absent ids.
type Store interface {
	// Create persists the header and all lines as one atomic unit: on any
	// failure no rows are visible, on success all are. Returns the assigned
	// order id.
	Create(ctx context.Context, order Order) (int64, error)

	// FindByID returns the aggregate with its lines.
	FindByID(ctx context.Context, id int64) (Order, error)

	// ListAll returns aggregates ordered by placement timestamp descending,
	// ties broken by insertion order. Deterministic within one instance.
	ListAll(ctx context.Context) ([]Order, error)

	// Delete removes the header and cascades removal of its lines.
	Delete(ctx context.Context, id int64) error

	// HasLinesForItem reports whether any line references the inventory
	// item. The inventory store consults this before allowing a delete.
	HasLinesForItem(ctx context.Context, itemID int64) (bool, error)
}
