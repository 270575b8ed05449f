//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"io"
	"reflect"

	"chat-relay/domain"
	"chat-relay/domain/event"

	"github.com/google/uuid"
)

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives a broadcast event for one consumer.
// Implementations must never block the caller: the dispatcher treats a
// slow consumer as a dropped delivery, not a stalled broadcast.
type EventSink interface {
	Consume(ctx context.Context, e event.ChatEvent) error
}

// SessionRegistry is the shared set of connected sessions.
// Insert happens on accept, Claim commits a username atomically with the
// taken-check, Remove happens exactly once when the session closes.
type SessionRegistry interface {
	Insert(sess *domain.Session, sink EventSink, conn io.Closer) error
	Claim(id uuid.UUID, username string) error
	Remove(id uuid.UUID)
	ActiveSinks() []EventSink
	CountSessions() int
	CountActive() int
	CloseAll()
}

// EventQueue is the ordered FIFO decoupling message ingestion from
// broadcast delivery. Enqueue never blocks; Dequeue blocks its single
// caller until an event is available or the queue is closed.
type EventQueue interface {
	Enqueue(e event.ChatEvent)
	Dequeue() (event.ChatEvent, bool)
	Close()
	Len() int
}
