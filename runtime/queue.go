// Package runtime wires the shared structures of the relay: the session
// registry, the broadcast queue, and the orchestrator coordinating them.
// It contains no wire-protocol logic.
package runtime

import (
	"sync"

	"chat-relay/domain/event"
)

// EventQueue is the global FIFO decoupling message ingestion from
// broadcast delivery. Producers are the connection handlers; the single
// consumer is the dispatcher worker.
//
// Enqueue never blocks and never fails: the queue is bounded only by
// memory, matching the original best-effort contract where the only drop
// path was an allocation failure the sender was never told about.
type EventQueue struct {
	mu     sync.Mutex
	ready  *sync.Cond
	items  []event.ChatEvent
	closed bool
}

func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends one event. Events offered after Close are discarded.
func (q *EventQueue) Enqueue(e event.ChatEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, e)
	q.ready.Signal()
}

// Dequeue blocks until an event is available or the queue is closed.
// The second return value is false only on shutdown; once the queue is
// closed, remaining entries are discarded rather than drained.
func (q *EventQueue) Dequeue() (event.ChatEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.ready.Wait()
	}
	if q.closed {
		return event.ChatEvent{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}

// Close wakes the blocked consumer and makes every later Dequeue return
// immediately with ok=false. Safe to call more than once.
func (q *EventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.ready.Broadcast()
}

func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
