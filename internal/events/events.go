package events

import (
	"encoding/json"
	"time"
)

// Event types carried on the streams.
const (
	UserRegistered = "user.registered"

	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"

	ImageUploaded = "image.uploaded"
)

// Stream names, one per aggregate.
const (
	UserEventsStream        = "user.events"
	TransactionEventsStream = "transaction.events"
	ImageEventsStream       = "image.events"
)

// Event is the wire envelope. The payload stays raw JSON so consumers
// decode it into the concrete type the Type field names, without a
// map round-trip.
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

type UserRegisteredEvent struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TransactionCreatedEvent struct {
	TransactionID   int64   `json:"transaction_id"`
	Slug            string  `json:"slug"`
	AccountID       int64   `json:"account_id"`
	UserID          int64   `json:"user_id"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	Category        string  `json:"category"`
}

type TransactionUpdatedEvent struct {
	Slug            string  `json:"slug"`
	AccountID       int64   `json:"account_id"`
	UserID          int64   `json:"user_id"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
}

type TransactionDeletedEvent struct {
	Slug string `json:"slug"`
}

type ImageUploadedEvent struct {
	ImageID  int64  `json:"image_id"`
	UserID   int64  `json:"user_id"`
	ImageURL string `json:"image_url"`
}
