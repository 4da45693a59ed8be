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

// DailyDeaths serves GET /covid/daily_deaths.
func (h *Handler) DailyDeaths(w http.ResponseWriter, r *http.Request) {
	req := dailyDeathsRequest{
		Country: r.URL.Query().Get("country"),
		Year:    queryInt(r, "year", 0),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.DailyDeaths(r.Context(), req.Country, req.Year)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// Summary serves GET /covid/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	req := summaryRequest{
		Country:  r.URL.Query().Get("country"),
		CaseType: r.URL.Query().Get("case_type"),
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
	}
	if req.CaseType == "" {
		req.CaseType = "deaths"
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	summary, cached, err := h.engine.Summary(r.Context(), req.Country,
		normalizeCaseType(req.CaseType), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, summary, cached, time.Since(start))
}

// GermanyRegional serves GET /covid/germany/regional.
func (h *Handler) GermanyRegional(w http.ResponseWriter, r *http.Request) {
	req := dateRangeRequest{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.GermanyRegional(r.Context(), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// GermanyCountiesSummary serves GET /covid/germany/counties-summary.
func (h *Handler) GermanyCountiesSummary(w http.ResponseWriter, r *http.Request) {
	req := countiesSummaryRequest{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
		TopN:     queryInt(r, "top_n", 10),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.GermanyCountiesSummary(r.Context(),
		datePtr(req.DateFrom), datePtr(req.DateTo), req.TopN)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// WHOReports serves GET /covid/who/reports.
func (h *Handler) WHOReports(w http.ResponseWriter, r *http.Request) {
	req := whoReportsRequest{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
		Limit:    queryInt(r, "limit", 50),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.WHOReports(r.Context(), datePtr(req.DateFrom), datePtr(req.DateTo), req.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// TravelRestrictions serves GET /covid/travel/restrictions. Zero
// restrictions in the window is a valid 200.
func (h *Handler) TravelRestrictions(w http.ResponseWriter, r *http.Request) {
	req := dateRangeRequest{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.TravelRestrictions(r.Context(), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// AirlinesAffected serves GET /covid/travel/airlines-affected.
func (h *Handler) AirlinesAffected(w http.ResponseWriter, r *http.Request) {
	req := airlinesRequest{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
		TopN:     queryInt(r, "top_n", 10),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.AirlinesAffected(r.Context(),
		datePtr(req.DateFrom), datePtr(req.DateTo), req.TopN)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// ECDCGlobal serves GET /covid/ecdc/global.
func (h *Handler) ECDCGlobal(w http.ResponseWriter, r *http.Request) {
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
	report, cached, err := h.engine.ECDCGlobal(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// Vaccinations serves GET /covid/vaccination.
func (h *Handler) Vaccinations(w http.ResponseWriter, r *http.Request) {
	req := vaccinationRequest{
		Countries: r.URL.Query().Get("countries"),
		DateFrom:  r.URL.Query().Get("date_from"),
		DateTo:    r.URL.Query().Get("date_to"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.Vaccinations(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// TopVaccinated serves GET /covid/vaccination/top-countries.
func (h *Handler) TopVaccinated(w http.ResponseWriter, r *http.Request) {
	req := topVaccinatedRequest{Limit: queryInt(r, "limit", 20)}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	start := time.Now()
	report, cached, err := h.engine.TopVaccinated(r.Context(), req.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}

// ComprehensiveReport serves GET /covid/comprehensive-report.
func (h *Handler) ComprehensiveReport(w http.ResponseWriter, r *http.Request) {
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
	report, cached, err := h.engine.ComprehensiveReport(r.Context(),
		splitCountries(req.Countries), datePtr(req.DateFrom), datePtr(req.DateTo))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, r, report, cached, time.Since(start))
}
