// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/covidlens/covidlens/internal/logging"
	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/sanitize"
	"github.com/covidlens/covidlens/internal/validation"
)

// Error codes surfaced in the response envelope.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeConfiguration    = "CONFIGURATION_ERROR"
	codeSourceDown       = "SOURCE_UNAVAILABLE"
	codeInsufficient     = "INSUFFICIENT_DATA"
	codeModelFit         = "MODEL_FIT_ERROR"
	codeNotFound         = "NOT_FOUND"
	codeRateLimited      = "RATE_LIMIT_EXCEEDED"
	codeInternal         = "INTERNAL_ERROR"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// respondData writes a success envelope. The payload passes the
// sanitizer so non-finite floats can never reach the encoder.
func respondData(w http.ResponseWriter, r *http.Request, data any, cached bool, elapsed time.Duration) {
	meta := models.Metadata{
		Timestamp: time.Now().UTC(),
		Cached:    cached,
	}
	if !cached {
		meta.QueryTimeMS = elapsed.Milliseconds()
	}
	writeJSON(w, r, http.StatusOK, models.APIResponse{
		Status:   "success",
		Data:     sanitize.Any(data),
		Metadata: meta,
	})
}

// respondAPIError writes an error envelope with the given status.
func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	writeJSON(w, r, status, models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

// respondError maps an engine error onto the taxonomy and writes it.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := mapError(err)
	if status >= http.StatusInternalServerError {
		logging.Error().
			Err(err).
			Str("request_id", logging.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	respondAPIError(w, r, status, apiErr)
}

// respondValidation writes the 400 envelope for a failed request
// struct.
func respondValidation(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	ve := verr.ToAPIError()
	respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
		Code:    ve.Code,
		Message: ve.Message,
		Details: ve.Details,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body models.APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}
