// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package models

import (
	"github.com/covidlens/covidlens/internal/forecast"
	"github.com/covidlens/covidlens/internal/stats"
	"github.com/covidlens/covidlens/internal/timeline"
)

// ForecastReport is the infection forecast response for one country.
type ForecastReport struct {
	Country string `json:"country"`
	*forecast.Result
}

// MortalityGDPPoint is one country's sample in the mortality-vs-GDP
// analysis.
type MortalityGDPPoint struct {
	Country       string   `json:"country"`
	Deaths        int64    `json:"deaths"`
	GDPPerCapita  float64  `json:"gdp_per_capita"`
	Population    *int64   `json:"population"`
	DeathsPer100k *float64 `json:"deaths_per_100k"`
}

// MortalityGDPReport correlates annual COVID deaths with GDP per capita.
// Slope is deaths per $1000 of GDP per capita.
type MortalityGDPReport struct {
	Year         int                 `json:"year"`
	N            int                 `json:"n"`
	Correlation  *float64            `json:"correlation"`
	Slope        *float64            `json:"slope_per_1k_gdp"`
	Strength     string              `json:"strength"`
	Relationship string              `json:"relationship"`
	Sample       []MortalityGDPPoint `json:"sample"`
}

// VaccinationMortalityPoint is one country's paired observation.
type VaccinationMortalityPoint struct {
	Country                   string  `json:"country"`
	FullyVaccinatedPerHundred float64 `json:"fully_vaccinated_per_hundred"`
	DeathsPer100k             float64 `json:"deaths_per_100k"`
}

// VaccinationMortalityReport correlates vaccination coverage with
// population-adjusted mortality across countries.
type VaccinationMortalityReport struct {
	N              int                         `json:"n"`
	Correlation    *float64                    `json:"correlation"`
	Slope          *float64                    `json:"slope"`
	Strength       string                      `json:"strength"`
	Relationship   string                      `json:"relationship"`
	Interpretation string                      `json:"interpretation"`
	Points         []VaccinationMortalityPoint `json:"points"`
}

// RestrictionsImpactPoint pairs a country's restriction count with its
// average daily WHO-reported cases.
type RestrictionsImpactPoint struct {
	Country       string   `json:"country"`
	Restrictions  int      `json:"restrictions"`
	AvgDailyCases *float64 `json:"avg_daily_cases"`
}

// RestrictionsImpactReport relates travel restriction activity to case
// load. Partial is set when one side of the pairing had no data; the
// available side is still reported.
type RestrictionsImpactReport struct {
	N             int                       `json:"n"`
	Correlation   *float64                  `json:"correlation"`
	Strength      string                    `json:"strength"`
	TopRestricted []NameCount               `json:"top_restricted"`
	TopByCases    []RestrictionsImpactPoint `json:"top_by_cases"`
	Partial       bool                      `json:"partial,omitempty"`
	Note          string                    `json:"note,omitempty"`
}

// SourceFigures is one source's headline numbers for a country.
type SourceFigures struct {
	Cases  *float64 `json:"cases"`
	Deaths *float64 `json:"deaths"`
}

// CountryComparison is the per-country panel across sources.
type CountryComparison struct {
	Country          string                   `json:"country"`
	Sources          map[string]SourceFigures `json:"sources"`
	SourcesReporting int                      `json:"sources_reporting"`
}

// MultiSourceComparisonReport places every source's figures side by
// side. Availability counts, per source, how many requested countries it
// actually reported.
type MultiSourceComparisonReport struct {
	Comparisons  []CountryComparison `json:"comparisons"`
	Availability map[string]int      `json:"availability"`
}

// MilestoneEvent is one entry of the canned global pandemic chronology.
type MilestoneEvent struct {
	Date     string `json:"date"`
	Event    string `json:"event"`
	Category string `json:"category"`
}

// TimelineCountry is one country's condensed history. Completeness maps
// metric name to the fraction of days in the window with a value.
type TimelineCountry struct {
	Country      string                `json:"country"`
	Monthly      []timeline.MonthBucket `json:"monthly"`
	KeyMoments   timeline.KeyMoments   `json:"key_moments"`
	Completeness map[string]float64    `json:"completeness"`
}

// PandemicTimelineReport is the timeline operation response.
type PandemicTimelineReport struct {
	Countries  []TimelineCountry `json:"countries"`
	Milestones []MilestoneEvent  `json:"milestones,omitempty"`
}

// SourceQuality scores one source's coverage of the requested countries.
type SourceQuality struct {
	Source             string  `json:"source"`
	CountriesRequested int     `json:"countries_requested"`
	CountriesCovered   int     `json:"countries_covered"`
	CoveragePct        float64 `json:"coverage_pct"`
	Rating             string  `json:"rating"`
	Recommendation     string  `json:"recommendation,omitempty"`
}

// DataSourceQualityReport aggregates coverage across all sources.
type DataSourceQualityReport struct {
	Sources            []SourceQuality `json:"sources"`
	OverallCoveragePct float64         `json:"overall_coverage_pct"`
	OverallRating      string          `json:"overall_rating"`
}

// CrossValidationReport scores cross-source agreement for one metric.
type CrossValidationReport struct {
	Metric        string                    `json:"metric"`
	Comparisons   []*stats.SourceComparison `json:"comparisons"`
	Discrepancies []string                  `json:"discrepancies"`
	Reliability   []stats.SourceReliability `json:"source_reliability"`
}

// CorrelationMatrixReport is the full matrix over the joined metric
// frame plus derived highlights.
type CorrelationMatrixReport struct {
	Metrics     []string                               `json:"metrics"`
	Countries   int                                    `json:"countries"`
	Matrix      map[string]map[string]stats.MatrixCell `json:"matrix"`
	StrongPairs []stats.StrongPair                     `json:"strong_pairs"`
	Summary     map[string]stats.MetricSummary         `json:"summary"`
}
