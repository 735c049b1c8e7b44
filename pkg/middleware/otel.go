package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/folio/pkg/protocol"
)

const defaultTracerName = "folio"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "folio").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which events to trace. Nil traces everything.
	Filter func(ev protocol.Event) bool
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider spans are started on.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ev protocol.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// OpenTelemetry starts a span named "folio.<type>" for every event and
// passes the span's context to the next handler.
//
// Scroll events arrive at animation-frame rate; filter them out when
// tracing to a paid backend:
//
//	middleware.OpenTelemetry(middleware.WithEventFilter(func(ev protocol.Event) bool {
//	    return ev.Type != protocol.EventScroll
//	}))
func OpenTelemetry(opts ...OTelOption) Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	return func(next EventHandler) EventHandler {
		return func(ctx context.Context, ev protocol.Event) error {
			if config.Filter != nil && !config.Filter(ev) {
				return next(ctx, ev)
			}

			tp := config.TracerProvider
			if tp == nil {
				tp = otel.GetTracerProvider()
			}

			attrs := []attribute.KeyValue{
				attribute.String("folio.event_type", string(ev.Type)),
			}
			if ev.Target != "" {
				attrs = append(attrs, attribute.String("folio.event_target", ev.Target))
			}
			if id := SessionID(ctx); id != "" {
				attrs = append(attrs, attribute.String("folio.session_id", id))
			}

			spanCtx, span := tp.Tracer(config.TracerName).Start(ctx,
				fmt.Sprintf("folio.%s", eventLabel(ev)),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			err := next(spanCtx, ev)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return err
		}
	}
}

// TracingOptions configures OTLP export.
type TracingOptions struct {
	// Endpoint is the OTLP/HTTP collector host:port. Empty disables export.
	Endpoint string

	// Insecure uses plain HTTP.
	Insecure bool

	// ServiceName is reported as service.name.
	ServiceName string

	// SampleRatio is the fraction of traces kept, 0 to 1.
	SampleRatio float64
}

// SetupTracing installs a global tracer provider exporting over OTLP/HTTP.
// With no endpoint it installs nothing and returns a no-op shutdown.
func SetupTracing(ctx context.Context, opts TracingOptions) (func(context.Context) error, error) {
	if opts.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exportOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exportOpts = append(exportOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, exportOpts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = defaultTracerName
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
