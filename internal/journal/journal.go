// Package journal
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types written by the replay layer.
const (
	EventStock = "stock"
	EventSale  = "sale"
	EventError = "error"
)

// Event is one journaled ledger operation. Rejected operations are journaled
// too, as EventError with the rejection reason in Note.
type Event struct {
	ID    uuid.UUID
	Time  time.Time
	Type  string // EventStock, EventSale or EventError
	Item  string
	Count float64
	Price float64
	Note  string
}

// NewEvent builds an event with a fresh ID.
func NewEvent(eventType string, at time.Time, item string, count, price float64, note string) Event {
	return Event{
		ID:    uuid.New(),
		Time:  at,
		Type:  eventType,
		Item:  item,
		Count: count,
		Price: price,
		Note:  note,
	}
}

// Journaler interface for journaling ledger events.
type Journaler interface {
	LogEvent(ctx context.Context, event Event) error
	GetEvents(ctx context.Context, eventType string, start, end time.Time) ([]Event, error)
}
