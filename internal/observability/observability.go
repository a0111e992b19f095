// Package observability holds the service's Prometheus metrics and logger
// construction. Metrics are incremented at the serving edge; the core
// packages stay free of instrumentation.
package observability

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queries_submitted_total",
		Help: "The total number of queries submitted for execution",
	})

	PollAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poll_attempts_total",
		Help: "The total number of status checks performed across all queries",
	})

	QueryOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "query_outcomes_total",
		Help: "The total number of query runs by terminal outcome",
	}, []string{"outcome"}) // outcome: success, failed, timeout, cancelled, error

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "query_duration_seconds",
		Help:    "End-to-end duration of query runs, submission through outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
)

// NewLogger creates a structured JSON logger at the given level.
func NewLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
