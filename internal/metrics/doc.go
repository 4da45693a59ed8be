// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

Source queries (DuckDB):
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, source
  - duckdb_query_errors_total: Query failures (counter)
  - source_unavailable_total: Source outage occurrences (counter)

Analytics engine:
  - analytics_operation_duration_seconds: Operation latency (histogram)
  - analytics_operation_errors_total: Failures by cause (counter)
    Labels: operation, error_type (insufficient_data, source_unavailable,
    model_fit, other)
  - forecast_fits_total / forecast_fit_duration_seconds: Model estimation

API:
  - api_requests_total, api_request_duration_seconds, api_active_requests

Result cache:
  - cache_hits_total, cache_misses_total (labeled by operation)
  - cache_entries, cache_evictions_total

Metadata store:
  - metastore_operations_total (labeled by operation, success)

All collectors are registered with promauto at package init, so importing
the package is sufficient to expose them.
*/
package metrics
