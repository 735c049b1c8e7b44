package server

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	folioerrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/contact"
	"github.com/vango-dev/folio/pkg/fieldstore"
	"github.com/vango-dev/folio/pkg/middleware"
	"github.com/vango-dev/folio/pkg/page"
	"github.com/vango-dev/folio/pkg/protocol"
)

// Session is one open page: a socket, its controllers and its loops.
type Session struct {
	ID      string
	Visitor string

	conn    *websocket.Conn
	config  SessionConfig
	logger  *slog.Logger
	metrics *middleware.Metrics

	contact *contact.Controller
	page    *page.Controller
	handler middleware.EventHandler

	events     chan protocol.Event
	dispatchCh chan func()
	done       chan struct{}
	closed     atomic.Bool
	started    atomic.Bool
	ctx        context.Context
	cancel     context.CancelFunc
	writeMu    sync.Mutex
	onClose    func(*Session)

	// Owned by the event loop.
	outbox           []protocol.Op
	seq              uint64
	contractReported bool

	eventCount atomic.Uint64
	patchCount atomic.Uint64
	CreatedAt  time.Time
}

// sessionView collects controller output into the session outbox.
type sessionView struct {
	s *Session
}

func (v sessionView) Apply(ops ...protocol.Op) {
	v.s.outbox = append(v.s.outbox, ops...)
}

// loopScheduler fires deferred steps on the session event loop.
type loopScheduler struct {
	base contact.Scheduler
	s    *Session
}

func (l loopScheduler) AfterFunc(d time.Duration, f func()) contact.Timer {
	return l.base.AfterFunc(d, func() { l.s.Dispatch(f) })
}

// newSession wires the controllers of one open page.
func (srv *Server) newSession(conn *websocket.Conn, visitor string) *Session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(middleware.WithSessionID(context.Background(), id))
	logger := srv.logger.With("session_id", id)

	s := &Session{
		ID:         id,
		Visitor:    visitor,
		conn:       conn,
		config:     srv.opts.Session,
		logger:     logger,
		metrics:    srv.opts.Metrics,
		events:     make(chan protocol.Event, srv.opts.Session.EventQueueSize),
		dispatchCh: make(chan func(), srv.opts.Session.DispatchQueueSize),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		CreatedAt:  time.Now(),
	}

	view := sessionView{s: s}

	copts := srv.opts.Contact
	copts.Store = fieldstore.NewBucket(srv.opts.Store, visitor)
	copts.View = view
	copts.Scheduler = loopScheduler{base: srv.opts.Scheduler, s: s}
	copts.Logger = logger.With("component", "contact")
	s.contact = contact.New(ctx, copts)

	s.page = page.New(srv.layout, page.Options{
		View:   view,
		Logger: logger.With("component", "page"),
	})

	var tracing middleware.Middleware
	if srv.opts.Tracing {
		tracing = middleware.OpenTelemetry()
	}
	s.handler = middleware.Chain(
		middleware.Recover(logger),
		tracing,
		middleware.Prometheus(srv.opts.Metrics),
	)(s.dispatch)

	return s
}

// Start runs the session loops.
func (s *Session) Start() {
	if s.started.Swap(true) {
		return
	}
	s.metrics.RecordSessionOpen()
	go s.readLoop()
	go s.pingLoop()
	go s.eventLoop()
}

// readLoop reads and decodes client messages until the socket fails.
func (s *Session) readLoop() {
	defer s.Close()

	if s.config.Limits.MaxMessageBytes > 0 {
		s.conn.SetReadLimit(int64(s.config.Limits.MaxMessageBytes))
	}
	s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.metrics.RecordWebSocketError("read")
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		ev, err := protocol.DecodeEventWithLimits(msg, s.config.Limits)
		if err != nil {
			code := folioerrors.CodeBadMessage
			if errors.Is(err, protocol.ErrUnknownEventType) {
				code = folioerrors.CodeUnknownEvent
			}
			ferr := folioerrors.New(code).Wrap(err)
			s.logger.Warn("event decode error", ferr.LogAttrs()...)
			s.metrics.RecordWebSocketError("decode")
			continue
		}

		if err := s.queueEvent(*ev); err != nil {
			s.metrics.RecordWebSocketError("queue_full")
		}
	}
}

// pingLoop sends heartbeats until the session closes.
func (s *Session) pingLoop() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				if !s.closed.Load() {
					s.logger.Debug("ping error", "error", err)
					s.Close()
				}
				return
			}
		case <-s.done:
			return
		}
	}
}

// eventLoop runs events and dispatched callbacks one at a time.
func (s *Session) eventLoop() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case fn := <-s.dispatchCh:
			s.executeDispatch(fn)
		case <-s.done:
			return
		}
	}
}

func (s *Session) handleEvent(ev protocol.Event) {
	s.eventCount.Add(1)

	if err := s.handler(s.ctx, ev); err != nil {
		if errors.Is(err, contact.ErrControllerClosed) || errors.Is(err, page.ErrControllerClosed) {
			return
		}
		attrs := []any{"type", ev.Type}
		var ferr *folioerrors.FolioError
		if errors.As(err, &ferr) {
			attrs = append(attrs, ferr.LogAttrs()...)
		} else {
			attrs = append(attrs, "error", err)
		}
		s.logger.Warn("event failed", attrs...)
	}
	s.flush()
}

// executeDispatch runs a deferred callback and flushes its output.
func (s *Session) executeDispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			ferr := folioerrors.New(folioerrors.CodeHandlerPanic).WithDetailf("dispatch: %v", r)
			s.logger.Error("dispatch panic", append(ferr.LogAttrs(), "stack", string(debug.Stack()))...)
			s.outbox = nil
		}
	}()

	fn()
	s.flush()
}

// flush sends the outbox as one numbered batch.
func (s *Session) flush() {
	if len(s.outbox) == 0 {
		return
	}
	ops := s.outbox
	s.outbox = nil
	s.seq++

	data, err := protocol.EncodePatches(s.seq, ops)
	if err != nil {
		s.logger.Error("encode patches failed", "error", err)
		return
	}
	if err := s.write(data); err != nil {
		if !errors.Is(err, ErrSessionClosed) {
			ferr := folioerrors.New(folioerrors.CodeWriteFailed).Wrap(err)
			s.logger.Warn("write patches failed", ferr.LogAttrs()...)
			s.metrics.RecordWebSocketError("write")
			s.Close()
		}
		return
	}
	s.patchCount.Add(uint64(len(ops)))
	s.metrics.RecordPatches(len(ops))
}

func (s *Session) write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// queueEvent hands an event to the event loop without blocking.
func (s *Session) queueEvent(ev protocol.Event) error {
	select {
	case s.events <- ev:
		return nil
	default:
		s.logger.Warn("event queue full, dropping event", "type", ev.Type)
		return ErrEventQueueFull
	}
}

// Dispatch queues fn to run on the event loop. It is safe to call from any
// goroutine; callbacks queued after Close are discarded.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	default:
		s.logger.Warn("dispatch queue full, discarding callback")
	}
}

// Close stops the loops, cancels pending timers and closes the socket.
// Close is idempotent.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}

	close(s.done)
	s.cancel()
	s.contact.Close()
	s.page.Close()

	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	s.conn.Close()

	if s.started.Load() {
		s.metrics.RecordSessionClose()
	}
	if s.onClose != nil {
		s.onClose(s)
	}

	s.logger.Info("session closed",
		"events", s.eventCount.Load(),
		"patches", s.patchCount.Load(),
		"duration", time.Since(s.CreatedAt).Round(time.Millisecond))
}

// IsClosed reports whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Contact returns the session's contact form controller.
func (s *Session) Contact() *contact.Controller {
	return s.contact
}

// Page returns the session's page controller.
func (s *Session) Page() *page.Controller {
	return s.page
}
