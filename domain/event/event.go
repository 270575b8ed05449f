// Package event defines the immutable events flowing through the relay.
package event

import (
	"fmt"
	"time"

	"chat-relay/domain"

	"github.com/google/uuid"
)

// ChatEvent is one relayable message awaiting broadcast: who said what.
// Consumed exactly once by the dispatcher, in global FIFO order.
type ChatEvent struct {
	ID     uuid.UUID
	Sender string
	Text   string
	At     time.Time
}

func NewChat(sender, text string) ChatEvent {
	return ChatEvent{
		ID:     uuid.New(),
		Sender: sender,
		Text:   text,
		At:     time.Now().UTC(),
	}
}

// Joined builds the system announcement queued when a login commits.
func Joined(username string) ChatEvent {
	return NewChat(domain.SystemSender, fmt.Sprintf("*** %s has joined the chat ***", username))
}

// Left builds the system announcement queued when a logged-in session closes.
func Left(username string) ChatEvent {
	return NewChat(domain.SystemSender, fmt.Sprintf("*** %s has left the chat ***", username))
}
