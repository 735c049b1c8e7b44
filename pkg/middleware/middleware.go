package middleware

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"

	folioerrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/protocol"
)

// EventHandler processes one client event.
type EventHandler func(ctx context.Context, ev protocol.Event) error

// Middleware wraps an EventHandler.
type Middleware func(next EventHandler) EventHandler

// Chain composes middleware so that the first argument runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next EventHandler) EventHandler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				next = mws[i](next)
			}
		}
		return next
	}
}

type sessionIDKey struct{}

// WithSessionID returns a context carrying the live session ID.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionID returns the session ID stored by WithSessionID, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// Recover converts a panicking handler into a CodeHandlerPanic error so
// one bad event cannot take the session down.
func Recover(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next EventHandler) EventHandler {
		return func(ctx context.Context, ev protocol.Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ferr := folioerrors.New(folioerrors.CodeHandlerPanic).
						WithDetailf("%s event: %v", ev.Type, r)
					logger.Error("event handler panic",
						append(ferr.LogAttrs(),
							"session_id", SessionID(ctx),
							"stack", string(debug.Stack()))...)
					err = ferr
				}
			}()
			return next(ctx, ev)
		}
	}
}

// eventLabel bounds label cardinality to the known event types.
func eventLabel(ev protocol.Event) string {
	if ev.Type.Valid() {
		return string(ev.Type)
	}
	return "unknown"
}

// categorizeError returns a low-cardinality label for err.
func categorizeError(err error) string {
	if code := folioerrors.CodeOf(err); code != "" {
		if def, ok := folioerrors.Lookup(code); ok {
			return string(def.Category)
		}
		return code
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "timeout"
	}
	return "internal"
}
