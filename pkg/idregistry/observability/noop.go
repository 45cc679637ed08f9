package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordLookup does nothing.
func (NoopMetrics) RecordLookup(_ context.Context, _ bool) {}

// RecordRegister does nothing.
func (NoopMetrics) RecordRegister(_ context.Context, _ bool) {}

// RecordLoad does nothing.
func (NoopMetrics) RecordLoad(_ context.Context, _ string, _ int, _ time.Duration) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartLookupSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartLookupSpan(ctx context.Context, _ string, _ int64) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartLoadSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartLoadSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}
