// Package observability provides structured logging, metrics, and tracing
// for the identifier registry.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger carrying the registry instance id.
func EnrichLogger(logger *slog.Logger, registryID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("registry_id", registryID))
}

// LogRegister logs a label registration.
func LogRegister(logger *slog.Logger, id int64, label string, replaced bool) {
	if logger == nil {
		return
	}
	logger.Debug("label registered",
		slog.Int64("id", id),
		slog.String("label", label),
		slog.Bool("replaced", replaced),
	)
}

// LogLookupMiss logs a lookup for an id with no label.
func LogLookupMiss(logger *slog.Logger, id int64) {
	if logger == nil {
		return
	}
	logger.Debug("label not found",
		slog.Int64("id", id),
	)
}

// LogLoaded logs a bulk population of the registry.
func LogLoaded(logger *slog.Logger, source string, count int, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Info("registry loaded",
		slog.String("source", source),
		slog.Int("entries", count),
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
	)
}

// LogStoreError logs a failed store operation.
func LogStoreError(logger *slog.Logger, op string, id int64, err error) {
	if logger == nil {
		return
	}
	logger.Warn("store operation failed",
		slog.String("operation", op),
		slog.Int64("id", id),
		slog.String("error", err.Error()),
	)
}
