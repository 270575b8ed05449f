package errors

import "fmt"

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrEmptyWords     = fmt.Errorf("no censored words have been found")
	ErrUsernameTaken  = fmt.Errorf("username taken")
	ErrEmptyUsername  = fmt.Errorf("empty username")
	ErrSessionLimit   = fmt.Errorf("too many connected sessions")
	ErrUnknownSession = fmt.Errorf("unknown session")
)
