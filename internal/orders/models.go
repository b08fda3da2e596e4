package orders

import "time"

// MaxCustomerNameLen matches the persisted column constraint.
const MaxCustomerNameLen = 200

// Line is one order line. OrderID is strong ownership (lines die with their
// order); ItemID is a weak reference into inventory, held as an id plus an
// on-demand lookup, never an owning pointer back to the item.
type Line struct {
	ID       int64
	OrderID  int64
	ItemID   int64
	Quantity int64
}

// Order is the aggregate: header plus strongly-owned lines, persisted and
// deleted as one unit.
type Order struct {
	ID           int64
	CustomerName string
	PlacedAt     time.Time
	Lines        []Line
}

// CreateOrderRequest is the POST /api/orders body. PlacedAt optionally
// overrides the placement timestamp; nil means time of creation.
type CreateOrderRequest struct {
	CustomerName string        `json:"customerName"`
	PlacedAt     *time.Time    `json:"placedAt,omitempty"`
	Items        []LineRequest `json:"items"`
}

// LineRequest references an inventory item by id. Duplicate item ids across
// lines are permitted; they stay independent lines.
type LineRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int64 `json:"quantity"`
}

// Projection is the read-time view of an order. Item names are resolved
// against the inventory store at read time, so a later rename shows up in
// previously created orders.
type Projection struct {
	ID           int64            `json:"orderId"`
	CustomerName string           `json:"customerName"`
	PlacedAt     time.Time        `json:"placedAt"`
	Items        []LineProjection `json:"items"`
}

// LineProjection is one projected order line.
type LineProjection struct {
	ItemID   int64  `json:"itemId"`
	ItemName string `json:"itemName"`
	Quantity int64  `json:"quantity"`
}
