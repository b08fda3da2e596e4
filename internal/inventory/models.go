package inventory

// Item is an inventory record. IDs are surrogate integers assigned by the
// store on insert.
type Item struct {
	ID       int64  `json:"itemId"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Location string `json:"location"`
}

// Field length bounds, matching the persisted column constraints.
const (
	MaxNameLen     = 200
	MaxLocationLen = 100
)

// CreateItemRequest is the POST /api/inventory body.
type CreateItemRequest struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Location string `json:"location"`
}
