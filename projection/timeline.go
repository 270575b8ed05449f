// Package projection builds local views from observed broadcast events.
// It never emits events and never talks to the network.
package projection

import (
	"context"
	"sync"

	"chat-relay/domain/event"
)

// Timeline retains the most recent broadcast events, oldest first. It is a
// permanent sink on the dispatcher fanout, mainly consulted by tests and
// operators poking at a running relay.
type Timeline struct {
	mu     sync.Mutex
	limit  int
	events []event.ChatEvent
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{limit: limit}
}

// Consume implements contract.EventSink. It never fails and never blocks
// beyond the append itself.
func (t *Timeline) Consume(_ context.Context, e event.ChatEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
	if t.limit > 0 && len(t.events) > t.limit {
		t.events = append(t.events[:0], t.events[len(t.events)-t.limit:]...)
	}
	return nil
}

// Recent returns a copy of the retained events in broadcast order.
func (t *Timeline) Recent() []event.ChatEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]event.ChatEvent, len(t.events))
	copy(out, t.events)
	return out
}

func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}
