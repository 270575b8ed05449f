package runtime

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/moderation"
	"chat-relay/projection"
	"chat-relay/runtime/workers"

	"github.com/google/uuid"
)

//go:embed censored/*
var censoredFolder embed.FS

// timelineLimit caps the recent-message projection.
const timelineLimit = 100

// Orchestrator owns the shared structures of the relay and the workers
// draining them. The TCP layer talks to sessions; everything the sessions
// share goes through here.
type Orchestrator struct {
	log        *slog.Logger
	supervisor *workers.Supervisor
	registry   *Registry
	queue      *EventQueue
	timeline   *projection.Timeline

	censorMask     rune
	metricInterval time.Duration
	done           chan struct{}
}

func NewOrchestrator(log *slog.Logger, supervisor *workers.Supervisor,
	registry *Registry, queue *EventQueue,
	censorMask rune, metricInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		registry:       registry,
		queue:          queue,
		timeline:       projection.NewTimeline(timelineLimit),
		censorMask:     censorMask,
		metricInterval: metricInterval,
	}
}

// Start prepares moderation and the worker set, then launches the
// supervisor. Heavy work (wordlist parsing, automaton build) happens here,
// before any connection is accepted.
func (o *Orchestrator) Start(ctx context.Context) error {
	moderator, err := o.prepareModeration()
	if err != nil {
		return err
	}

	dispatcher := workers.NewDispatcher(o.log, o.queue, o.registry, moderator,
		[]contract.EventSink{o.timeline})
	o.supervisor.Add(dispatcher)

	if o.metricInterval > 0 {
		o.supervisor.Add(workers.NewHealthMonitor(o.log, o.registry, o.queue, o.metricInterval))
	}

	o.log.Info("Starting orchestrator and all supervised workers")
	o.done = make(chan struct{})
	go func() {
		o.supervisor.Run(ctx)
		close(o.done)
	}()
	return nil
}

// Stop closes the queue so the blocked dispatcher wakes and exits, cancels
// the remaining workers, and waits for all of them to return. Events still
// queued are discarded.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.queue.Close()
	o.supervisor.Stop()
	if o.done != nil {
		<-o.done
	}
}

// prepareModeration loads the embedded censored words and builds the
// Aho-Corasick automaton.
func (o *Orchestrator) prepareModeration() (moderation.Moderator, error) {
	loader := NewWordlistLoader(censoredFolder)
	data, err := loader.LoadAll("censored")
	if err != nil {
		return moderation.Moderator{}, err
	}

	o.log.Info(fmt.Sprintf("%d censored words loaded [%s]",
		len(data.Words), strings.Join(data.Languages, ",")))

	return moderation.NewModerator(data.Words, o.censorMask)
}

// Post queues one chat line for broadcast. Best-effort: the sender is
// never told about a dropped event.
func (o *Orchestrator) Post(sender, text string) {
	o.queue.Enqueue(event.NewChat(sender, text))
}

// AnnounceJoin queues the system announcement for a completed login.
func (o *Orchestrator) AnnounceJoin(username string) {
	o.queue.Enqueue(event.Joined(username))
}

// AnnounceLeave queues the system announcement for a departed session.
func (o *Orchestrator) AnnounceLeave(username string) {
	o.queue.Enqueue(event.Left(username))
}

// RegisterSession adds a freshly accepted session to the registry.
func (o *Orchestrator) RegisterSession(sess *domain.Session, sink contract.EventSink, conn io.Closer) error {
	return o.registry.Insert(sess, sink, conn)
}

// ClaimUsername atomically checks and commits a username for the session.
func (o *Orchestrator) ClaimUsername(id uuid.UUID, username string) error {
	return o.registry.Claim(id, username)
}

// UnregisterSession removes a session; safe to call for unknown IDs.
func (o *Orchestrator) UnregisterSession(id uuid.UUID) {
	o.registry.Remove(id)
}

// CloseAllSessions force-closes every connection so blocked handler reads
// fail and the handlers run their own terminal cleanup.
func (o *Orchestrator) CloseAllSessions() {
	o.registry.CloseAll()
}

// Recent exposes the timeline projection of recently broadcast events.
func (o *Orchestrator) Recent() []event.ChatEvent {
	return o.timeline.Recent()
}
