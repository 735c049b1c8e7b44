// Package middleware wraps live-session event handling with recovery,
// tracing and metrics.
//
// An EventHandler processes one decoded client event. Middleware wraps a
// handler and Chain composes several, outermost first:
//
//	handler := middleware.Chain(
//	    middleware.Recover(logger),
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(metrics),
//	)(session.dispatch)
//
// # Prometheus Metrics
//
// NewMetrics registers the folio collectors on a registry:
//   - folio_events_total: events processed by type and status
//   - folio_event_duration_seconds: event processing duration histogram
//   - folio_event_errors_total: failed events by type and error category
//   - folio_patches_sent_total: patch operations sent to clients
//   - folio_active_sessions: live sessions
//   - folio_submissions_total: contact submissions by outcome
//   - folio_contract_violations_total: pages missing required elements
//   - folio_websocket_errors_total: socket faults by kind
//   - folio_http_requests_total: HTTP requests by route and status
//
// A nil *Metrics is valid and records nothing.
//
// # OpenTelemetry
//
// OpenTelemetry starts one span per event on the global tracer provider.
// SetupTracing installs an OTLP/HTTP exporting provider when an endpoint
// is configured:
//
//	shutdown, err := middleware.SetupTracing(ctx, middleware.TracingOptions{
//	    Endpoint:    "localhost:4318",
//	    Insecure:    true,
//	    ServiceName: "folio",
//	})
//	defer shutdown(context.Background())
//
// The session ID is carried on the context with WithSessionID so that
// every layer can label its output.
package middleware
