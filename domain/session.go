// Package domain contains core concepts of the chat relay.
// This file defines Session state and the wire limits every layer agrees on.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wire limits inherited from the original protocol definition.
const (
	MaxUsernameLen      = 32
	MaxMessageLen       = 1024
	MaxPasswordAttempts = 5
)

// SystemSender is the sender name carried by join/leave announcements.
const SystemSender = "Server"

// AuthState is the per-session protocol phase.
type AuthState int

const (
	AwaitingPassword AuthState = iota
	AwaitingLogin
	Active
	Closed
)

func (s AuthState) String() string {
	switch s {
	case AwaitingPassword:
		return "awaiting_password"
	case AwaitingLogin:
		return "awaiting_login"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is the server-side state for one connected peer.
//
// Username is written exactly once, when the registry commits the login,
// and is immutable afterwards. State transitions past AwaitingLogin are
// guarded by the registry mutex; the owning connection handler is the only
// other writer.
type Session struct {
	ID        uuid.UUID
	Username  string
	State     AuthState
	CreatedAt time.Time
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		State:     AwaitingPassword,
		CreatedAt: time.Now().UTC(),
	}
}
