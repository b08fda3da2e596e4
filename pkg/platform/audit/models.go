// Package audit captures structured audit events for state mutations. Events
// are recorded asynchronously; audit failure never fails the request that
// produced the event.
package audit

import "time"

// Action identifies what happened.
type Action string

const (
	ActionItemCreated  Action = "inventory.item.created"
	ActionItemDeleted  Action = "inventory.item.deleted"
	ActionOrderCreated Action = "order.created"
	ActionOrderDeleted Action = "order.deleted"
)

// Event is emitted from domain logic to capture key mutations. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Action    Action    `json:"action"`
	EntityID  int64     `json:"entity_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
