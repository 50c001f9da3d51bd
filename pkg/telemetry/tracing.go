package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for the shell.
const defaultTracerName = "carlscalendar/shell"

// TracerConfig configures navigation tracing.
type TracerConfig struct {
	// TracerName is the tracer name (default: "carlscalendar/shell").
	TracerName string

	// IncludeOrigin includes the navigation origin attribute.
	// Enabled by default.
	IncludeOrigin bool
}

// TracerOption configures navigation tracing.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithoutOrigin drops the navigation origin attribute from spans.
func WithoutOrigin() TracerOption {
	return func(c *TracerConfig) {
		c.IncludeOrigin = false
	}
}

// Tracer creates one span per navigation attempt.
type Tracer struct {
	cfg    TracerConfig
	tracer trace.Tracer
}

// NewTracer creates a navigation tracer.
func NewTracer(opts ...TracerOption) *Tracer {
	cfg := TracerConfig{
		TracerName:    defaultTracerName,
		IncludeOrigin: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tracer{
		cfg:    cfg,
		tracer: otel.Tracer(cfg.TracerName),
	}
}

// StartNavigation opens the span for a navigation attempt.
func (t *Tracer) StartNavigation(ctx context.Context, navID, path, origin string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("nav.id", navID),
		attribute.String("nav.path", path),
	}
	if t.cfg.IncludeOrigin {
		attrs = append(attrs, attribute.String("nav.origin", origin))
	}
	return t.tracer.Start(ctx, "shell.navigate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndNavigation closes the span with the navigation outcome.
func (t *Tracer) EndNavigation(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("nav.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
