package inventory

import "context"

// Store is the durable keyed collection of inventory items. Implementations
// must return sentinel.ErrNotFound for absent ids and sentinel.ErrReferenced
// when a delete is blocked by order lines.
type Store interface {
	// Insert persists the item and returns it with its assigned id.
	Insert(ctx context.Context, item Item) (Item, error)

	// Delete removes the item. Deletion is refused while order lines
	// reference the item.
	Delete(ctx context.Context, id int64) error

	// List returns all items ordered by id ascending.
	List(ctx context.Context) ([]Item, error)

	// ExistingIDs filters ids down to those present in the store, in one
	// batch check.
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)

	// NamesByIDs resolves current item names for the given ids. Absent ids
	// are simply missing from the result.
	NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)

	// UpdateName renames an item in place. Not exposed over HTTP; it exists
	// so read-time projections stay honest about current names.
	UpdateName(ctx context.Context, id int64, name string) error
}
