// Package protocol implements the newline-delimited wire protocol spoken
// between the relay and its peers. The codec is stateless apart from the
// read buffering needed to reassemble lines split across socket reads.
package protocol

import (
	"bytes"
	"io"
	"strings"
)

// Client to server commands.
type CommandKind int

const (
	Pass CommandKind = iota
	Login
	Msg
	Quit
	Unknown
)

type Command struct {
	Kind    CommandKind
	Payload string
}

// Parse classifies one complete line received from a peer.
// An empty or unrecognized line maps to Unknown; the state machine decides
// how harsh to be about it.
func Parse(line string) Command {
	switch {
	case strings.HasPrefix(line, "PASS:"):
		return Command{Kind: Pass, Payload: line[len("PASS:"):]}
	case strings.HasPrefix(line, "LOGIN:"):
		return Command{Kind: Login, Payload: line[len("LOGIN:"):]}
	case strings.HasPrefix(line, "MSG:"):
		return Command{Kind: Msg, Payload: line[len("MSG:"):]}
	case line == "QUIT":
		return Command{Kind: Quit}
	default:
		return Command{Kind: Unknown, Payload: line}
	}
}

// Server to client lines.
const (
	PromptPassword = "PASSWORD:"
	PassAccepted   = "OKPASS"
	LoginAccepted  = "OK"
)

// Rejection reasons, sent as ERR:<reason>.
const (
	ReasonBadPassword     = "Bad password"
	ReasonExpectedPass    = "Expected PASS:<password>"
	ReasonTooManyAttempts = "Too many attempts"
	ReasonInvalidLogin    = "Invalid login. Send LOGIN:<username>"
	ReasonEmptyUsername   = "Empty username"
	ReasonUsernameTaken   = "Username taken"
	ReasonUnknownCommand  = "Unknown command"
)

func ErrorLine(reason string) string {
	return "ERR:" + reason
}

// ChatLine formats a relayed broadcast line.
func ChatLine(sender, text string) string {
	return sender + ": " + text
}

// WriteLine sends one line, appending the newline terminator.
func WriteLine(w io.Writer, line string) error {
	_, err := w.Write(append([]byte(line), '\n'))
	return err
}

// LineReader reassembles newline-terminated lines from a stream.
//
// A partial read may split a frame: leftover bytes are carried to the next
// read. Lines longer than max are truncated to max bytes and the remainder
// up to the next newline is discarded, so a misbehaving peer cannot grow
// the buffer without bound.
type LineReader struct {
	r    io.Reader
	max  int
	buf  []byte
	skip bool
}

func NewLineReader(r io.Reader, max int) *LineReader {
	return &LineReader{r: r, max: max}
}

// ReadLine blocks until one complete line is available and returns it
// without its terminator. A trailing carriage return is stripped. Partial
// lines pending at EOF are dropped: only newline-terminated frames reach
// the state machine.
func (lr *LineReader) ReadLine() (string, error) {
	chunk := make([]byte, 512)
	for {
		if i := bytes.IndexByte(lr.buf, '\n'); i >= 0 {
			end := i
			if end > lr.max {
				end = lr.max
			}
			line := string(lr.buf[:end])
			lr.buf = append(lr.buf[:0], lr.buf[i+1:]...)
			if lr.skip {
				// Tail of a previously truncated line.
				lr.skip = false
				continue
			}
			return strings.TrimSuffix(line, "\r"), nil
		}

		if !lr.skip && len(lr.buf) >= lr.max {
			line := string(lr.buf[:lr.max])
			lr.buf = lr.buf[:0]
			lr.skip = true
			return line, nil
		}
		if lr.skip {
			// Keep discarding until the newline shows up.
			lr.buf = lr.buf[:0]
		}

		n, err := lr.r.Read(chunk)
		if n > 0 {
			lr.buf = append(lr.buf, chunk[:n]...)
			continue
		}
		if err == nil {
			err = io.ErrNoProgress
		}
		return "", err
	}
}
