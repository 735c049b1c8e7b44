package server

import (
	"time"

	"github.com/vango-dev/folio/pkg/protocol"
)

// SessionConfig configures live sessions.
type SessionConfig struct {
	// WriteTimeout bounds each socket write. Default: 10s.
	WriteTimeout time.Duration

	// PingInterval is how often the server pings the client. Default: 30s.
	PingInterval time.Duration

	// ReadTimeout is how long a socket may stay silent, pongs included.
	// Default: twice PingInterval.
	ReadTimeout time.Duration

	// EventQueueSize buffers decoded events. Default: 64.
	EventQueueSize int

	// DispatchQueueSize buffers deferred callbacks. Default: 16.
	DispatchQueueSize int

	// Limits bounds incoming messages. Default: protocol.DefaultLimits().
	Limits protocol.Limits
}

func (c *SessionConfig) setDefaults() {
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PingInterval == 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 2 * c.PingInterval
	}
	if c.EventQueueSize == 0 {
		c.EventQueueSize = 64
	}
	if c.DispatchQueueSize == 0 {
		c.DispatchQueueSize = 16
	}
	if c.Limits == (protocol.Limits{}) {
		c.Limits = protocol.DefaultLimits()
	}
}
