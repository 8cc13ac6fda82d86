package orderbookv1

import "time"

// EventType names the mutation that produced an Event.
type EventType string

const (
	EventOrderPlaced    EventType = "order_placed"
	EventOrderCancelled EventType = "order_cancelled"
	EventBookReset      EventType = "book_reset"
)

// Event is delivered to every listener once per mutating operation, after
// the engine state for that operation has settled. Order is a copy and is
// nil for EventBookReset.
type Event struct {
	Type      EventType `json:"type"`
	Order     *Order    `json:"order,omitempty"`
	Trades    []Trade   `json:"trades,omitempty"`
	Sequence  uint64    `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}

// Listener receives change notifications.
type Listener func(Event)
