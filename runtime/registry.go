package runtime

import (
	"io"
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
	apperrors "chat-relay/errors"

	"github.com/google/uuid"
)

type entry struct {
	session *domain.Session
	sink    contract.EventSink
	conn    io.Closer
}

// Registry is the shared set of connected sessions, keyed by session ID,
// with a side index of claimed usernames. All mutation goes through one
// mutex so that checking a username and claiming it is a single atomic
// step: two sessions racing for the same name can never both win.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]entry
	byName   map[string]uuid.UUID
	limit    *int // nil means unlimited
}

func NewRegistry(limit *int) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]entry),
		byName:   make(map[string]uuid.UUID),
		limit:    limit,
	}
}

// Insert registers a freshly accepted session, before any authentication.
// It fails only when the optional connection cap is reached.
func (r *Registry) Insert(sess *domain.Session, sink contract.EventSink, conn io.Closer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit != nil && len(r.sessions) >= *r.limit {
		return apperrors.ErrSessionLimit
	}
	r.sessions[sess.ID] = entry{session: sess, sink: sink, conn: conn}
	return nil
}

// Claim commits a username to a session and marks it Active, atomically
// with the taken-check. The username is written exactly once here and is
// immutable afterwards.
func (r *Registry) Claim(id uuid.UUID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[username]; taken {
		return apperrors.ErrUsernameTaken
	}
	e, ok := r.sessions[id]
	if !ok {
		return apperrors.ErrUnknownSession
	}
	e.session.Username = username
	e.session.State = domain.Active
	r.byName[username] = id
	return nil
}

// Remove drops a session and releases its username if one was claimed.
// Removing an unknown ID is a no-op, which keeps the terminal cleanup
// transition idempotent.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return
	}
	delete(r.sessions, id)
	if e.session.State == domain.Active {
		delete(r.byName, e.session.Username)
	}
	e.session.State = domain.Closed
}

// ActiveSinks snapshots the sinks of every Active session. The dispatcher
// iterates the snapshot outside the lock, so a session removed mid-
// broadcast simply stops seeing deliveries; its sink stays valid.
func (r *Registry) ActiveSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sinks := make([]contract.EventSink, 0, len(r.byName))
	for _, id := range r.byName {
		if e, ok := r.sessions[id]; ok {
			sinks = append(sinks, e.sink)
		}
	}
	return sinks
}

func (r *Registry) CountSessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// CloseAll force-closes every session's connection. The handlers observe
// the read failure and run their own terminal cleanup; nothing is removed
// from the registry here.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.sessions {
		if e.conn != nil {
			_ = e.conn.Close()
		}
	}
}
