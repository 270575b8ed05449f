package workers

import (
	"context"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/moderation"
)

// Dispatcher is the single consumer of the event queue. It pops events in
// global FIFO order, censors their text, and fans each one out to every
// Active session plus the permanent sinks.
//
// Delivery is best-effort per peer: a full or broken sink drops that one
// delivery and must never stall the broadcast loop — the offending peer's
// own handler notices the failure on its next read and closes it.
type Dispatcher struct {
	log       *slog.Logger
	queue     contract.EventQueue
	registry  contract.SessionRegistry
	moderator moderation.Moderator
	sinks     []contract.EventSink
}

func NewDispatcher(log *slog.Logger, queue contract.EventQueue,
	registry contract.SessionRegistry, moderator moderation.Moderator,
	permanentSinks []contract.EventSink) *Dispatcher {
	return &Dispatcher{
		log:       log,
		queue:     queue,
		registry:  registry,
		moderator: moderator,
		sinks:     permanentSinks,
	}
}

func (w *Dispatcher) Run(ctx context.Context) error {
	// Dequeue blocks outside the select machinery, so tie the wake-up to
	// the context: cancellation closes the queue.
	stop := context.AfterFunc(ctx, w.queue.Close)
	defer stop()

	for {
		evt, ok := w.queue.Dequeue()
		if !ok {
			w.log.Info("Event queue closed, dispatcher exiting")
			return nil
		}

		evt.Text = w.moderator.Censor(evt.Text)

		for _, sink := range w.sinks {
			if err := sink.Consume(ctx, evt); err != nil {
				w.log.Debug("Permanent sink refused event", "error", err)
			}
		}
		for _, sink := range w.registry.ActiveSinks() {
			if err := sink.Consume(ctx, evt); err != nil {
				w.log.Debug("Delivery dropped", "event_id", evt.ID, "error", err)
			}
		}
	}
}
