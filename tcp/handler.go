package tcp

import (
	"errors"
	"log/slog"
	"net"
	"sync"

	"chat-relay/auth"
	"chat-relay/domain"
	apperrors "chat-relay/errors"
	"chat-relay/protocol"
	"chat-relay/runtime"
)

// Handler drives the protocol state machine for one accepted connection:
// password phase, login phase, then the relay loop. Every exit path funnels
// into the same terminal close, which is idempotent.
//
// Before login commits, replies are written straight to the socket; no
// broadcast can target this session yet. Once the session is Active, all
// outbound lines go through the ConnSink pump so handler replies never
// interleave with dispatcher broadcasts.
type Handler struct {
	log   *slog.Logger
	conn  net.Conn
	orch  *runtime.Orchestrator
	guard auth.Guard
	sess  *domain.Session
	sink  *ConnSink

	loggedIn  bool
	closeOnce sync.Once
}

func NewHandler(log *slog.Logger, conn net.Conn, orch *runtime.Orchestrator,
	guard auth.Guard, bufferSize int) *Handler {
	return &Handler{
		log:   log,
		conn:  conn,
		orch:  orch,
		guard: guard,
		sess:  domain.NewSession(),
		sink:  NewConnSink(log, bufferSize),
	}
}

// Run blocks until the connection is done. Callers spawn it and never
// join: a closed socket is enough to unblock and terminate it.
func (h *Handler) Run() {
	defer h.close()

	if err := h.orch.RegisterSession(h.sess, h.sink, h.conn); err != nil {
		// Connection cap reached; drop silently like any transport failure.
		h.log.Warn("Rejecting connection", "remote", h.conn.RemoteAddr(), "error", err)
		return
	}
	h.log.Debug("New connection", "remote", h.conn.RemoteAddr(), "session", h.sess.ID)

	reader := protocol.NewLineReader(h.conn, domain.MaxMessageLen+64)

	if !h.passwordPhase(reader) {
		return
	}
	if !h.loginPhase(reader) {
		return
	}
	h.relayLoop(reader)
}

// passwordPhase prompts and reads until the shared secret matches or the
// attempt budget is spent. Transport failures close silently.
func (h *Handler) passwordPhase(reader *protocol.LineReader) bool {
	attempts := 0
	for attempts < domain.MaxPasswordAttempts {
		if err := protocol.WriteLine(h.conn, protocol.PromptPassword); err != nil {
			return false
		}
		line, err := reader.ReadLine()
		if err != nil {
			return false
		}

		cmd := protocol.Parse(line)
		if cmd.Kind != protocol.Pass {
			attempts++
			_ = protocol.WriteLine(h.conn, protocol.ErrorLine(protocol.ReasonExpectedPass))
			continue
		}
		if h.guard.Verify(cmd.Payload) {
			h.sess.State = domain.AwaitingLogin
			return protocol.WriteLine(h.conn, protocol.PassAccepted) == nil
		}
		attempts++
		_ = protocol.WriteLine(h.conn, protocol.ErrorLine(protocol.ReasonBadPassword))
	}

	_ = protocol.WriteLine(h.conn, protocol.ErrorLine(protocol.ReasonTooManyAttempts))
	return false
}

// loginPhase reads exactly one LOGIN line. Any rejection is terminal for
// the connection. On success the username is committed atomically with the
// taken-check, the sink pump starts, and the join announcement is queued.
func (h *Handler) loginPhase(reader *protocol.LineReader) bool {
	line, err := reader.ReadLine()
	if err != nil {
		return false
	}

	cmd := protocol.Parse(line)
	if cmd.Kind != protocol.Login {
		_ = protocol.WriteLine(h.conn, protocol.ErrorLine(protocol.ReasonInvalidLogin))
		return false
	}

	username := cmd.Payload
	if len(username) > domain.MaxUsernameLen {
		username = username[:domain.MaxUsernameLen]
	}
	if username == "" {
		_ = protocol.WriteLine(h.conn, protocol.ErrorLine(protocol.ReasonEmptyUsername))
		return false
	}

	if err := h.orch.ClaimUsername(h.sess.ID, username); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			_ = protocol.WriteLine(h.conn, protocol.ErrorLine(protocol.ReasonUsernameTaken))
		}
		return false
	}
	h.loggedIn = true

	if err := protocol.WriteLine(h.conn, protocol.LoginAccepted); err != nil {
		return false
	}

	// From here on the dispatcher may deliver into the sink; the pump owns
	// all socket writes for the rest of the session.
	go h.sink.pump(h.conn)

	h.log.Info("Client logged in", "username", username, "remote", h.conn.RemoteAddr())
	h.orch.AnnounceJoin(username)
	return true
}

// relayLoop processes MSG/QUIT lines until the peer quits or the transport
// fails. Unknown commands are reported and tolerated.
func (h *Handler) relayLoop(reader *protocol.LineReader) {
	for {
		line, err := reader.ReadLine()
		if err != nil {
			return
		}

		switch cmd := protocol.Parse(line); cmd.Kind {
		case protocol.Msg:
			text := cmd.Payload
			if len(text) > domain.MaxMessageLen {
				text = text[:domain.MaxMessageLen]
			}
			h.orch.Post(h.sess.Username, text)
		case protocol.Quit:
			return
		default:
			if !h.sink.Send(protocol.ErrorLine(protocol.ReasonUnknownCommand)) {
				return
			}
		}
	}
}

// close is the single terminal transition. Every password, login, relay,
// and shutdown path lands here exactly once per session.
func (h *Handler) close() {
	h.closeOnce.Do(func() {
		if h.loggedIn {
			h.orch.AnnounceLeave(h.sess.Username)
		}
		h.orch.UnregisterSession(h.sess.ID)
		h.sink.retire()
		_ = h.conn.Close()
		h.log.Debug("Connection closed", "session", h.sess.ID, "username", h.sess.Username)
	})
}
