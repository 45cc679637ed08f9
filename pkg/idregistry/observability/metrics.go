package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Lookup result attribute values.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordLookup records a point lookup and whether it found a label.
	RecordLookup(ctx context.Context, found bool)

	// RecordRegister records a label registration.
	RecordRegister(ctx context.Context, replaced bool)

	// RecordLoad records a bulk population from a source.
	RecordLoad(ctx context.Context, source string, entries int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	lookups       metric.Int64Counter
	registrations metric.Int64Counter
	loadLatency   metric.Float64Histogram
	loadEntries   metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("idregistry")

	lookups, err := meter.Int64Counter("idregistry.lookups",
		metric.WithDescription("Number of label lookups"),
	)
	if err != nil {
		return nil, err
	}

	registrations, err := meter.Int64Counter("idregistry.registrations",
		metric.WithDescription("Number of label registrations"),
	)
	if err != nil {
		return nil, err
	}

	loadLatency, err := meter.Float64Histogram("idregistry.load.latency_ms",
		metric.WithDescription("Registry population latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	loadEntries, err := meter.Int64Histogram("idregistry.load.entries",
		metric.WithDescription("Entries loaded per population"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		lookups:       lookups,
		registrations: registrations,
		loadLatency:   loadLatency,
		loadEntries:   loadEntries,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordLookup records a lookup.
func (m *otelMetrics) RecordLookup(ctx context.Context, found bool) {
	result := ResultMiss
	if found {
		result = ResultHit
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordRegister records a registration.
func (m *otelMetrics) RecordRegister(ctx context.Context, replaced bool) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("replaced", replaced)))
}

// RecordLoad records a bulk population.
func (m *otelMetrics) RecordLoad(ctx context.Context, source string, entries int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.loadLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.loadEntries.Record(ctx, int64(entries), attrs)
}
