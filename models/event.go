package models

import "time"

// EventType names the entity kind a sync event is about. Writes through the
// service layer use the collection name as the event type.
type EventType string

// EventAll subscribes a bus handler to every event type.
const EventAll EventType = "*"

const (
	EventUsers        EventType = CollectionUsers
	EventAccounts     EventType = CollectionAccounts
	EventTransactions EventType = CollectionTransactions
	EventSettings     EventType = CollectionSettings
)

// EventAction tells what happened to the entity.
type EventAction string

const (
	ActionCreated  EventAction = "created"
	ActionUpdated  EventAction = "updated"
	ActionDeleted  EventAction = "deleted"
	ActionSnapshot EventAction = "snapshot"
)

// Event is a transient, in-memory sync notification.
type Event struct {
	Type       EventType   `json:"type"`
	Action     EventAction `json:"action"`
	Collection string      `json:"collection,omitempty"`
	DocumentID string      `json:"document_id,omitempty"`
	Payload    any         `json:"payload,omitempty"`
	EmittedAt  time.Time   `json:"emitted_at"`
}
