// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package api

import (
	"net/http"
	"time"

	"github.com/covidlens/covidlens/internal/validation"
)

// MortalityVsGDP serves GET /analytics/mortality-vs-gdp.
func (h *Handler) MortalityVsGDP(w http.ResponseWriter, r *http.Request) {
	req := mortalityGDPRequest{
		Year:      queryInt(r, "year", 0),
		Countries: r.URL.Query().Get("countries"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.MortalityVsGDP(r.Context(), req.Year, splitCountries(req.Countries))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// PredictInfections serves GET /analytics/predict-infections.
func (h *Handler) PredictInfections(w http.ResponseWriter, r *http.Request) {
	req := predictRequest{
		Country:   r.URL.Query().Get("country"),
		DaysAhead: queryInt(r, "days_ahead", 7),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.PredictInfections(r.Context(), req.Country, req.DaysAhead)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// VaccinationVsMortality serves GET /analytics/vaccination-vs-mortality.
func (h *Handler) VaccinationVsMortality(w http.ResponseWriter, r *http.Request) {
	req := countriesRangeRequest{
		Countries: r.URL.Query().Get("countries"),
		DateFrom:  r.URL.Query().Get("date_from"),
		DateTo:    r.URL.Query().Get("date_to"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.VaccinationVsMortality(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// TravelRestrictionsImpact serves GET /analytics/travel-restrictions-impact.
func (h *Handler) TravelRestrictionsImpact(w http.ResponseWriter, r *http.Request) {
	req := countriesRangeRequest{
		Countries: r.URL.Query().Get("countries"),
		DateFrom:  r.URL.Query().Get("date_from"),
		DateTo:    r.URL.Query().Get("date_to"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.TravelRestrictionsImpact(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// MultiSourceComparison serves GET /analytics/multi-source-comparison.
func (h *Handler) MultiSourceComparison(w http.ResponseWriter, r *http.Request) {
	req := comprehensiveRequest{
		Countries: r.URL.Query().Get("countries"),
		DateFrom:  r.URL.Query().Get("date_from"),
		DateTo:    r.URL.Query().Get("date_to"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.MultiSourceComparison(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// PandemicTimeline serves GET /analytics/pandemic-timeline.
func (h *Handler) PandemicTimeline(w http.ResponseWriter, r *http.Request) {
	req := timelineRequest{
		Countries:         r.URL.Query().Get("countries"),
		StartDate:         r.URL.Query().Get("start_date"),
		EndDate:           r.URL.Query().Get("end_date"),
		IncludeMilestones: queryBool(r, "include_milestones"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.PandemicTimeline(r.Context(),
		splitCountries(req.Countries), datePtr(req.StartDate), datePtr(req.EndDate), req.IncludeMilestones)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// DataSourceQuality serves GET /analytics/data-source-quality.
func (h *Handler) DataSourceQuality(w http.ResponseWriter, r *http.Request) {
	req := comprehensiveRequest{
		Countries: r.URL.Query().Get("countries"),
		DateFrom:  r.URL.Query().Get("date_from"),
		DateTo:    r.URL.Query().Get("date_to"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.DataSourceQuality(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// CrossValidation serves GET /analytics/cross-validation.
func (h *Handler) CrossValidation(w http.ResponseWriter, r *http.Request) {
	req := crossValidationRequest{
		Countries: r.URL.Query().Get("countries"),
		DateFrom:  r.URL.Query().Get("date_from"),
		DateTo:    r.URL.Query().Get("date_to"),
		Metric:    r.URL.Query().Get("metric"),
	}
	if req.Metric == "" {
		req.Metric = "cases"
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.CrossValidation(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo), req.Metric)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// CorrelationMatrix serves GET /analytics/advanced-correlation-matrix.
func (h *Handler) CorrelationMatrix(w http.ResponseWriter, r *http.Request) {
	req := comprehensiveRequest{
		Countries: r.URL.Query().Get("countries"),
		DateFrom:  r.URL.Query().Get("date_from"),
		DateTo:    r.URL.Query().Get("date_to"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.CorrelationMatrix(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}
