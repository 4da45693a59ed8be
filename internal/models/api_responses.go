// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package models

import (
	"time"
)

// APIResponse is the standardized wrapper for every HTTP endpoint.
//
// Status is "success" or "error"; Data carries the payload on success and
// Error the structured failure otherwise. Metadata is always present.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"country": "Germany", "total_deaths": 1532, ...},
//	  "metadata": {
//	    "timestamp": "2021-03-11T12:00:00Z",
//	    "query_time_ms": 45,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "INSUFFICIENT_DATA",
//	    "message": "insufficient observations for forecasting",
//	    "details": {"observations": 4, "required": 10}
//	  },
//	  "metadata": {"timestamp": "2021-03-11T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields. QueryTimeMS is the
// engine execution time; it is 0 and Cached true when the result was
// served from the memoizer.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the structured error body.
//
// Error codes:
//   - VALIDATION_ERROR: invalid request parameters
//   - CONFIGURATION_ERROR: the service is missing required configuration
//   - SOURCE_UNAVAILABLE: an upstream source table could not be queried
//   - INSUFFICIENT_DATA: not enough valid observations for the requested analysis
//   - MODEL_FIT_ERROR: forecast estimation failed on valid input
//   - NOT_FOUND: unknown route or resource
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}
