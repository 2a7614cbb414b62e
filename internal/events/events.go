// Package events fans out ledger and catalog changes to live listeners.
// Publishing never fails the mutation that triggered it.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	CountRegistered = "count.registered"
	CountUpdated    = "count.updated"
	CountDeleted    = "count.deleted"
	CountsCleared   = "count.cleared"
	ProductAdded    = "product.added"
	ProductUpdated  = "product.updated"
	CatalogImported = "catalog.imported"
)

type Event struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Actor   string      `json:"actor,omitempty"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType, actor string, payload interface{}) Event {
	return Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Actor:   actor,
		At:      time.Now().UTC(),
		Payload: payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Multi publishes to every non-nil publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, e)
		}
	}
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}
