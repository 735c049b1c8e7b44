package server

import "errors"

// Session errors.
var (
	ErrSessionClosed   = errors.New("server: session closed")
	ErrTooManySessions = errors.New("server: too many sessions")
	ErrEventQueueFull  = errors.New("server: event queue full")
)
