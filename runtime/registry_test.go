package runtime

import (
	"context"
	"sync"
	"testing"

	"chat-relay/domain"
	"chat-relay/domain/event"
	apperrors "chat-relay/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type Sink struct {
}

func (s Sink) Consume(ctx context.Context, e event.ChatEvent) error {
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRegistry_Insert_Then_Claim(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil)
	sess := domain.NewSession()
	sink := Sink{}

	// Given an empty registry
	req.Equal(0, registry.CountSessions())
	req.Equal(0, registry.CountActive())

	// When a session is inserted before authentication
	req.NoError(registry.Insert(sess, sink, nil))

	// Then it counts as connected but not active
	req.Equal(1, registry.CountSessions())
	req.Equal(0, registry.CountActive())
	req.Empty(registry.ActiveSinks())

	// When the session claims a username
	req.NoError(registry.Claim(sess.ID, "alice"))

	// Then it becomes active and visible to broadcast
	req.Equal("alice", sess.Username)
	req.Equal(domain.Active, sess.State)
	req.Equal(1, registry.CountActive())
	req.Len(registry.ActiveSinks(), 1)
}

func TestRegistry_Claim_Taken_Username(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil)
	first := domain.NewSession()
	second := domain.NewSession()

	req.NoError(registry.Insert(first, Sink{}, nil))
	req.NoError(registry.Insert(second, Sink{}, nil))

	// Given a claimed username
	req.NoError(registry.Claim(first.ID, "alice"))

	// When another session claims the same name
	err := registry.Claim(second.ID, "alice")

	// Then the claim is rejected and the loser stays unauthenticated
	req.ErrorIs(err, apperrors.ErrUsernameTaken)
	req.Empty(second.Username)
	req.Equal(1, registry.CountActive())
}

func TestRegistry_Claim_Unknown_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil)

	// When claiming for a session that was never inserted
	err := registry.Claim(uuid.New(), "ghost")

	// Then
	req.ErrorIs(err, apperrors.ErrUnknownSession)
}

func TestRegistry_Remove_Releases_Username(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil)
	sess := domain.NewSession()

	req.NoError(registry.Insert(sess, Sink{}, nil))
	req.NoError(registry.Claim(sess.ID, "alice"))

	// When the session is removed
	registry.Remove(sess.ID)

	// Then the name is free again for a newcomer
	req.Equal(0, registry.CountSessions())
	req.Equal(domain.Closed, sess.State)

	next := domain.NewSession()
	req.NoError(registry.Insert(next, Sink{}, nil))
	req.NoError(registry.Claim(next.ID, "alice"))

	// And removing twice is a no-op
	registry.Remove(sess.ID)
	req.Equal(1, registry.CountSessions())
}

func TestRegistry_Concurrent_Claims_Exactly_One_Winner(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil)

	const contenders = 16
	sessions := make([]*domain.Session, contenders)
	for i := range sessions {
		sessions[i] = domain.NewSession()
		req.NoError(registry.Insert(sessions[i], Sink{}, nil))
	}

	// When every session races for the same username
	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = registry.Claim(sessions[i].ID, "highlander")
		}(i)
	}
	wg.Wait()

	// Then exactly one claim succeeds
	winners := lo.CountBy(errs, func(err error) bool { return err == nil })
	req.Equal(1, winners)
	req.Equal(1, registry.CountActive())
}

func TestRegistry_Session_Limit(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(lo.ToPtr(2))

	// Given a full registry
	req.NoError(registry.Insert(domain.NewSession(), Sink{}, nil))
	req.NoError(registry.Insert(domain.NewSession(), Sink{}, nil))

	// When a third session connects
	err := registry.Insert(domain.NewSession(), Sink{}, nil)

	// Then it is refused
	req.ErrorIs(err, apperrors.ErrSessionLimit)
	req.Equal(2, registry.CountSessions())
}

func TestRegistry_CloseAll_Closes_Connections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil)

	closed := 0
	conn := closerFunc(func() error {
		closed++
		return nil
	})

	sess := domain.NewSession()
	req.NoError(registry.Insert(sess, Sink{}, conn))
	req.NoError(registry.Insert(domain.NewSession(), Sink{}, conn))

	// When shutting everything down
	registry.CloseAll()

	// Then every connection was closed but cleanup stays with the handlers
	req.Equal(2, closed)
	req.Equal(2, registry.CountSessions())
}
