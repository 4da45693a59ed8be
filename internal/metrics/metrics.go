// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - DuckDB source query performance
// - Analytics engine operation latency and outcomes
// - API endpoint latency and throughput
// - Result cache efficiency
// - Metadata store operations

var (
	// Source query metrics
	SourceQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB source queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "source"},
	)

	SourceQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB source query errors",
		},
		[]string{"operation", "source"},
	)

	SourceUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_unavailable_total",
			Help: "Total number of times a data source was unavailable",
		},
		[]string{"source"},
	)

	// Analytics engine metrics
	AnalyticsOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_operation_duration_seconds",
			Help:    "Duration of analytics engine operations in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	AnalyticsOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_operation_errors_total",
			Help: "Total number of analytics operation failures",
		},
		[]string{"operation", "error_type"}, // insufficient_data, source_unavailable, model_fit, other
	)

	ForecastFits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_fits_total",
			Help: "Total number of forecast model fits",
		},
		[]string{"result"}, // "success", "insufficient_data", "fit_error"
	)

	ForecastFitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecast_fit_duration_seconds",
			Help:    "Duration of forecast model estimation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Result cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"operation"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"operation"},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached analytics results",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry and LRU)",
		},
	)

	// Metadata store metrics
	MetastoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metastore_operations_total",
			Help: "Total number of metadata store operations",
		},
		[]string{"operation", "success"},
	)

	// System metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordSourceQuery records a DuckDB query against one source table.
func RecordSourceQuery(operation, source string, duration time.Duration, err error) {
	SourceQueryDuration.WithLabelValues(operation, source).Observe(duration.Seconds())
	if err != nil {
		SourceQueryErrors.WithLabelValues(operation, source).Inc()
	}
}

// RecordAnalyticsOp records an analytics engine operation and classifies
// its failure mode for alerting.
func RecordAnalyticsOp(operation string, duration time.Duration, err error) {
	AnalyticsOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		AnalyticsOpErrors.WithLabelValues(operation, classifyError(err)).Inc()
	}
}

// RecordForecastFit records the outcome and duration of a model fit.
func RecordForecastFit(duration time.Duration, result string) {
	ForecastFitDuration.Observe(duration.Seconds())
	ForecastFits.WithLabelValues(result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a memoizer lookup outcome for one operation.
func RecordCacheLookup(operation string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(operation).Inc()
	} else {
		CacheMisses.WithLabelValues(operation).Inc()
	}
}

// RecordMetastoreOp records a metadata store operation.
func RecordMetastoreOp(operation string, err error) {
	success := "true"
	if err != nil {
		success = "false"
	}
	MetastoreOps.WithLabelValues(operation, success).Inc()
}

// classifyError buckets analytics failures by their dominant cause. The
// match is on message substrings since the error types live in packages
// this one must not import.
func classifyError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient"):
		return "insufficient_data"
	case strings.Contains(msg, "unavailable"):
		return "source_unavailable"
	case strings.Contains(msg, "fit"):
		return "model_fit"
	default:
		return "other"
	}
}
