// Package event provides a small topic-addressed event bus.
//
// Delivery is synchronous: Publish runs every matching handler on the
// caller's goroutine, in subscription order, before returning. Hosts use the
// bus as their notification source so that all calltip work happens on the
// host's event goroutine.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a notification published on a Bus.
type Event struct {
	// ID uniquely identifies this event instance.
	ID string

	// Topic is the hierarchical event type.
	Topic Topic

	// Payload carries event-specific data.
	Payload any

	// Source identifies the publisher.
	Source string

	// Timestamp is when the event was created.
	Timestamp time.Time
}

// New creates an event with a fresh ID and timestamp.
func New(t Topic, payload any, source string) Event {
	return Event{
		ID:        uuid.NewString(),
		Topic:     t,
		Payload:   payload,
		Source:    source,
		Timestamp: time.Now(),
	}
}

// Handler processes an event.
type Handler interface {
	Handle(ev Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ev Event) error {
	return f(ev)
}
