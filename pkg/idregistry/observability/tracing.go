package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("idregistry")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartLookupSpan starts a span for a single id lookup.
	StartLookupSpan(ctx context.Context, registryID string, id int64) (context.Context, trace.Span)

	// StartLoadSpan starts a span for populating the registry from a source.
	StartLoadSpan(ctx context.Context, registryID, source string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// NewSpanManagerFor returns a SpanManager bound to tp instead of the
// global provider.
func NewSpanManagerFor(tp trace.TracerProvider) SpanManager {
	return &otelSpanManager{tracer: tp.Tracer("idregistry")}
}

func (m *otelSpanManager) t() trace.Tracer {
	if m.tracer != nil {
		return m.tracer
	}
	return tracer
}

func (m *otelSpanManager) StartLookupSpan(ctx context.Context, registryID string, id int64) (context.Context, trace.Span) {
	return m.t().Start(ctx, "idregistry.lookup",
		trace.WithAttributes(
			attribute.String("registry.id", registryID),
			attribute.Int64("entry.id", id),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartLoadSpan(ctx context.Context, registryID, source string) (context.Context, trace.Span) {
	return m.t().Start(ctx, "idregistry.load",
		trace.WithAttributes(
			attribute.String("registry.id", registryID),
			attribute.String("load.source", source),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
