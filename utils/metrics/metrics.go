// Package metrics provides Prometheus metrics for report-assembler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "report_assembler"

var (
	// BackendRequestsTotal counts polis backend requests by endpoint and outcome.
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of polis backend requests",
		},
		[]string{"endpoint", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of polis backend requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// CorrelationPollAttempts counts correlation matrix requests by returned status.
	CorrelationPollAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlation_poll_attempts_total",
			Help:      "Total number of correlation matrix poll attempts",
		},
		[]string{"status"},
	)

	ReportLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_loads_total",
			Help:      "Total number of report loads by resulting state",
		},
		[]string{"status"},
	)

	ReportLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_load_duration_seconds",
			Help:      "Duration of a full report load in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// ValidationWarningsTotal counts missing statistical model fields.
	ValidationWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_warnings_total",
			Help:      "Total number of missing statistical model fields",
		},
		[]string{"field"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total number of cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)

	ActiveReportViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_report_views",
			Help:      "Number of mounted report views",
		},
	)

	// CircuitBreakerState is 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 = closed, 1 = open, 2 = half-open)",
		},
		[]string{"name"},
	)
)

func RecordBackendRequest(endpoint, status string, duration float64) {
	BackendRequestsTotal.WithLabelValues(endpoint, status).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(duration)
}

func RecordPollAttempt(status string) {
	if status == "" {
		status = "ready"
	}
	CorrelationPollAttempts.WithLabelValues(status).Inc()
}

func RecordReportLoad(status string, duration float64) {
	ReportLoadsTotal.WithLabelValues(status).Inc()
	ReportLoadDuration.Observe(duration)
}

func RecordValidationWarnings(fields []string) {
	for _, f := range fields {
		ValidationWarningsTotal.WithLabelValues(f).Inc()
	}
}

func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
