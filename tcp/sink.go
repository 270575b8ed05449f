// Package tcp is the wire-protocol transport of the relay: the acceptor,
// the per-connection handler state machine, and the per-connection sink
// the dispatcher delivers into.
package tcp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"chat-relay/domain/event"
	"chat-relay/protocol"
)

var errBackpressure = fmt.Errorf("outbound buffer full")

// ConnSink queues outbound lines for one connection. The dispatcher and
// the owning handler both feed the buffer; a single pump goroutine drains
// it to the socket, so writes never interleave.
type ConnSink struct {
	log  *slog.Logger
	out  chan string
	quit chan struct{}
	once sync.Once
}

func NewConnSink(log *slog.Logger, bufferSize int) *ConnSink {
	return &ConnSink{
		log:  log,
		out:  make(chan string, bufferSize),
		quit: make(chan struct{}),
	}
}

// Consume is called by the dispatcher fanout. It formats the broadcast
// line and offers it without blocking: a peer that stopped draining its
// socket loses deliveries instead of stalling everyone else.
func (s *ConnSink) Consume(_ context.Context, e event.ChatEvent) error {
	select {
	case s.out <- protocol.ChatLine(e.Sender, e.Text):
		return nil
	case <-s.quit:
		return net.ErrClosed
	default:
		return errBackpressure
	}
}

// Send queues a protocol control line from the owning handler. It blocks
// until buffered, and reports false once the sink is retired.
func (s *ConnSink) Send(line string) bool {
	select {
	case s.out <- line:
		return true
	case <-s.quit:
		return false
	}
}

// pump drains queued lines into the connection. A write failure closes the
// connection so the handler's blocked read fails and runs cleanup.
func (s *ConnSink) pump(conn net.Conn) {
	for {
		select {
		case <-s.quit:
			return
		case line := <-s.out:
			if err := protocol.WriteLine(conn, line); err != nil {
				s.log.Debug("Outbound write failed, closing connection", "error", err)
				_ = conn.Close()
				return
			}
		}
	}
}

// retire stops the pump and makes all later Send calls fail fast.
// Idempotent.
func (s *ConnSink) retire() {
	s.once.Do(func() { close(s.quit) })
}
