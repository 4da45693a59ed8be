// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps the library in a thread-safe singleton with the custom rules
// Covidlens request types rely on and translates failures into
// human-readable messages in the API's VALIDATION_ERROR format.
//
// # Quick Start
//
//	type DailyDeathsRequest struct {
//	    Country string `validate:"required,countryname"`
//	    Days    int    `validate:"min=1,max=365"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Custom Rules
//
//   - countryname: a plausible country spelling as found across the
//     ingest sources, including forms like "Korea, South",
//     "Cote d'Ivoire", and "Congo (Brazzaville)"
//
// # Error Message Translation
//
//	required       -> "Country is required"
//	countryname    -> "Country must be a valid country name"
//	min=1          -> "Days must be at least 1"
//	max=365        -> "Days must be at most 365"
//	oneof=asc desc -> "Order must be one of: asc desc"
//
// The singleton validator caches struct reflection metadata, so repeated
// validations of the same request type are cheap.
package validation
