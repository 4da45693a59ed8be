// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/validation"
)

// Root serves GET / with a service descriptor.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]any{
		"service": "covidlens",
		"description": "Multi-source COVID-19 analytics over JHU, ECDC, WHO, " +
			"OWID, HDX, and RKI data",
		"docs": map[string]string{
			"health":       "/health",
			"data_sources": "/info/data-sources",
			"covid":        "/covid",
			"analytics":    "/analytics",
		},
	}, false, 0)
}

// Health serves GET /health. verbose=1 adds per-table row counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	verbose := queryInt(r, "verbose", 0) == 1

	start := time.Now()
	status := h.engine.Health(r.Context(), verbose)

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// DataSources serves GET /info/data-sources.
func (h *Handler) DataSources(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]any{
		"sources": h.engine.DataSourcesInfo(),
	}, false, 0)
}

// UpsertCountryMeta serves POST /metadata/country.
func (h *Handler) UpsertCountryMeta(w http.ResponseWriter, r *http.Request) {
	var doc models.CountryMetadata
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    codeValidation,
			Message: "invalid JSON body: " + err.Error(),
		})
		return
	}
	if verr := validation.ValidateStruct(doc); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	result, err := h.engine.UpsertCountryMeta(r.Context(), doc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, result, false, time.Since(start))
}

// ListCountryMeta serves GET /metadata/country.
func (h *Handler) ListCountryMeta(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	docs, err := h.engine.ListCountryMeta(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, map[string]any{
		"countries": docs,
		"count":     len(docs),
	}, false, time.Since(start))
}

// AddAnnotation serves POST /annotations.
func (h *Handler) AddAnnotation(w http.ResponseWriter, r *http.Request) {
	var note models.Annotation
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    codeValidation,
			Message: "invalid JSON body: " + err.Error(),
		})
		return
	}
	if note.DashboardID == "" {
		note.DashboardID = "covid_dashboard"
	}
	if verr := validation.ValidateStruct(note); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	stored, err := h.engine.AddAnnotation(r.Context(), note)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, stored, false, time.Since(start))
}

// ListAnnotations serves GET /annotations, newest first.
func (h *Handler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
	req := annotationsListRequest{
		DashboardID: r.URL.Query().Get("dashboard_id"),
		Limit:       queryInt(r, "limit", 100),
	}
	if req.DashboardID == "" {
		req.DashboardID = "covid_dashboard"
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	notes, err := h.engine.ListAnnotations(r.Context(), req.DashboardID, req.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, map[string]any{
		"dashboard_id": req.DashboardID,
		"annotations":  notes,
		"count":        len(notes),
	}, false, time.Since(start))
}
