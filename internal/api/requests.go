// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package api

import (
	"net/http"
	"strconv"
	"strings"
)

// Request structs collect query parameters for validation before the
// engine is called. Bounds follow the public API contract: dates are
// YYYY-MM-DD, country lists are comma-separated, limits are capped per
// endpoint.

type dailyDeathsRequest struct {
	Country string `validate:"required,countryname"`
	Year    int    `validate:"gte=2019,lte=2100"`
}

type summaryRequest struct {
	Country  string `validate:"required,countryname"`
	CaseType string `validate:"oneof=cases confirmed deaths recovered"`
	DateFrom string `validate:"required,datetime=2006-01-02"`
	DateTo   string `validate:"required,datetime=2006-01-02,gtedate=DateFrom"`
}

type dateRangeRequest struct {
	DateFrom string `validate:"required,datetime=2006-01-02"`
	DateTo   string `validate:"required,datetime=2006-01-02,gtedate=DateFrom"`
}

type whoReportsRequest struct {
	DateFrom string `validate:"required,datetime=2006-01-02"`
	DateTo   string `validate:"required,datetime=2006-01-02,gtedate=DateFrom"`
	Limit    int    `validate:"gte=1,lte=200"`
}

type countiesSummaryRequest struct {
	DateFrom string `validate:"required,datetime=2006-01-02"`
	DateTo   string `validate:"required,datetime=2006-01-02,gtedate=DateFrom"`
	TopN     int    `validate:"gte=1,lte=50"`
}

type airlinesRequest struct {
	DateFrom string `validate:"required,datetime=2006-01-02"`
	DateTo   string `validate:"required,datetime=2006-01-02,gtedate=DateFrom"`
	TopN     int    `validate:"gte=1,lte=30"`
}

type countriesRangeRequest struct {
	Countries string `validate:"omitempty,max=2000"`
	DateFrom  string `validate:"required,datetime=2006-01-02"`
	DateTo    string `validate:"required,datetime=2006-01-02,gtedate=DateFrom"`
}

type vaccinationRequest struct {
	Countries string `validate:"omitempty,max=2000"`
	DateFrom  string `validate:"omitempty,datetime=2006-01-02"`
	DateTo    string `validate:"omitempty,datetime=2006-01-02,gtedate=DateFrom"`
}

type topVaccinatedRequest struct {
	Limit int `validate:"gte=1,lte=50"`
}

type comprehensiveRequest struct {
	Countries string `validate:"required,max=2000"`
	DateFrom  string `validate:"required,datetime=2006-01-02"`
	DateTo    string `validate:"required,datetime=2006-01-02,gtedate=DateFrom"`
}

type mortalityGDPRequest struct {
	Year      int    `validate:"gte=2020,lte=2100"`
	Countries string `validate:"omitempty,max=2000"`
}

type predictRequest struct {
	Country   string `validate:"required,countryname"`
	DaysAhead int    `validate:"gte=1,lte=30"`
}

type timelineRequest struct {
	Countries         string `validate:"required,max=2000"`
	StartDate         string `validate:"required,datetime=2006-01-02"`
	EndDate           string `validate:"required,datetime=2006-01-02,gtedate=StartDate"`
	IncludeMilestones bool
}

type crossValidationRequest struct {
	Countries string `validate:"required,max=2000"`
	DateFrom  string `validate:"required,datetime=2006-01-02"`
	DateTo    string `validate:"required,datetime=2006-01-02,gtedate=DateFrom"`
	Metric    string `validate:"oneof=cases deaths"`
}

type annotationsListRequest struct {
	DashboardID string `validate:"required,max=200"`
	Limit       int    `validate:"gte=1,lte=1000"`
}

// queryInt reads an integer query parameter, falling back to def when
// absent. A non-numeric value returns a sentinel outside every
// endpoint's validator bounds so the parse failure surfaces as a
// validation error instead of a silent default.
func queryInt(r *http.Request, name string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1 << 30
	}
	return v
}

// queryBool reads a boolean query parameter; absent or unparsable
// values are false.
func queryBool(r *http.Request, name string) bool {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

// splitCountries turns a comma-separated country parameter into a
// trimmed list, dropping empty segments.
func splitCountries(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// datePtr returns the date string as a pointer, nil when empty.
func datePtr(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// normalizeCaseType folds the public "cases" alias onto the warehouse
// case type column value.
func normalizeCaseType(caseType string) string {
	if caseType == "cases" {
		return "confirmed"
	}
	return caseType
}
