// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package api

import (
	"errors"
	"net/http"

	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/forecast"
	"github.com/covidlens/covidlens/internal/metastore"
	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/source"
	"github.com/covidlens/covidlens/internal/stats"
)

// mapError translates an engine error into an HTTP status and the
// structured error body. Degenerate analytical results (no data,
// too few pairs) are a 404-class condition, not an empty 200.
func mapError(err error) (int, *models.APIError) {
	var srcErr *source.UnavailableError
	if errors.As(err, &srcErr) {
		return http.StatusBadGateway, &models.APIError{
			Code:    codeSourceDown,
			Message: err.Error(),
			Details: map[string]interface{}{"source": srcErr.Source},
		}
	}

	if errors.Is(err, stats.ErrInsufficientData) || errors.Is(err, forecast.ErrInsufficientData) {
		return http.StatusNotFound, &models.APIError{
			Code:    codeInsufficient,
			Message: err.Error(),
		}
	}

	var fitErr *forecast.FitError
	if errors.As(err, &fitErr) {
		return http.StatusInternalServerError, &models.APIError{
			Code:    codeModelFit,
			Message: err.Error(),
		}
	}

	if errors.Is(err, config.ErrIncomplete) {
		return http.StatusInternalServerError, &models.APIError{
			Code:    codeConfiguration,
			Message: err.Error(),
		}
	}

	if errors.Is(err, metastore.ErrNotFound) {
		return http.StatusNotFound, &models.APIError{
			Code:    codeNotFound,
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, &models.APIError{
		Code:    codeInternal,
		Message: err.Error(),
	}
}
