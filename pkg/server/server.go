package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clientdist "github.com/vango-dev/folio/client/dist"
	"github.com/vango-dev/folio/pkg/assets"
	"github.com/vango-dev/folio/pkg/contact"
	"github.com/vango-dev/folio/pkg/fieldstore"
	"github.com/vango-dev/folio/pkg/middleware"
	"github.com/vango-dev/folio/pkg/page"
	"github.com/vango-dev/folio/pkg/site"
)

// Options configures a Server.
type Options struct {
	// Store persists form values per visitor. Default: a MemoryStore.
	Store fieldstore.Store

	// Profile is the page owner's content. Default: site.DefaultProfile().
	Profile *site.Profile

	// Contact tunes the contact form controller. Store, View, Scheduler
	// and Logger are set per session and ignored here.
	Contact contact.Options

	// Scheduler runs the contact form's deferred steps before they are
	// dispatched onto the session loop. Default: contact.SystemScheduler.
	Scheduler contact.Scheduler

	// Metrics records server metrics. Nil disables them.
	Metrics *middleware.Metrics

	// Gatherer backs /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Tracing wraps each event in a span when true.
	Tracing bool

	// AllowedOrigins lists cross-origin callers of /api and the socket.
	// Empty means same origin only for the socket and any origin for /api.
	AllowedOrigins []string

	// SecureCookie marks the visitor cookie Secure.
	SecureCookie bool

	// ReadHeaderTimeout bounds request header reads. Default: 10s.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 15s.
	ShutdownTimeout time.Duration

	// Session configures live sessions.
	Session SessionConfig

	// MaxSessions caps live sessions. Zero means unlimited.
	MaxSessions int

	// Logger defaults to slog.Default().With("component", "server").
	Logger *slog.Logger
}

// Server serves the portfolio page and its live sessions.
type Server struct {
	opts     Options
	logger   *slog.Logger
	router   chi.Router
	sessions *SessionManager
	upgrader websocket.Upgrader

	profile  site.Profile
	layout   page.Layout
	clientJS []byte
	etag     string
	assets   *assets.Manifest
	resolver assets.Resolver

	httpServer *http.Server
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = fieldstore.NewMemoryStore()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = contact.SystemScheduler{}
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	opts.Session.setDefaults()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "server")
	}

	profile := site.DefaultProfile()
	if opts.Profile != nil {
		profile = *opts.Profile
	}

	sum := sha256.Sum256(clientdist.FolioJS)
	manifest := assets.NewManifest()
	manifest.Add(clientAsset, clientdist.FolioJS)

	s := &Server{
		opts:     opts,
		logger:   logger,
		sessions: NewSessionManager(opts.MaxSessions, logger),
		profile:  profile,
		layout:   site.Layout(site.Page(site.Content{Profile: profile, Projects: page.Projects()})),
		clientJS: clientdist.FolioJS,
		etag:     `"` + hex.EncodeToString(sum[:8]) + `"`,
		assets:   manifest,
		resolver: assets.NewResolver(manifest, "/_folio/"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.opts.Metrics.HTTP)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/_folio", func(r chi.Router) {
		r.Get("/client.js", s.handleClient)
		r.Get("/ws", s.handleWebSocket)
		r.Get("/{asset}", s.handleAsset)
	})

	r.Route("/api", func(r chi.Router) {
		origins := s.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/projects", s.handleProjects)
		r.Get("/projects/{index}", s.handleProject)
	})

	return r
}

// checkOrigin allows same-origin sockets and the configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	host := r.Host
	return origin == "http://"+host || origin == "https://"+host
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
