package tcp

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"chat-relay/auth"
	"chat-relay/runtime"
)

// Server accepts connections and spawns one fire-and-forget Handler per
// socket. It never joins handlers: shutdown closes their sockets, which is
// enough to unblock and terminate them.
type Server struct {
	log        *slog.Logger
	orch       *runtime.Orchestrator
	guard      auth.Guard
	bufferSize int

	ln       net.Listener
	stopOnce sync.Once
	stopped  chan struct{}
}

func NewServer(log *slog.Logger, orch *runtime.Orchestrator, guard auth.Guard, bufferSize int) *Server {
	return &Server{
		log:        log,
		orch:       orch,
		guard:      guard,
		bufferSize: bufferSize,
		stopped:    make(chan struct{}),
	}
}

// Listen binds the listening socket. A failure here is fatal to the whole
// process; the caller decides how loudly.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.ln = ln
	s.log.Info("Relay listening", "addr", ln.Addr().String())
	return nil
}

// Addr reports the bound address; handy when listening on port 0.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the accept loop until Shutdown closes the listener. Each
// accepted connection gets its own handler goroutine.
func (s *Server) Serve() error {
	if s.ln == nil {
		return fmt.Errorf("serve called before listen")
	}
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.stopped:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		handler := NewHandler(s.log, conn, s.orch, s.guard, s.bufferSize)
		go handler.Run()
	}
}

// Shutdown stops accepting and force-closes every registered session so
// blocked handler reads fail and the handlers clean themselves up.
// Idempotent.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stopped)
		if s.ln != nil {
			_ = s.ln.Close()
		}
		s.orch.CloseAllSessions()
		s.log.Info("Relay stopped accepting connections")
	})
}
