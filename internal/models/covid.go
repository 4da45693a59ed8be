// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package models defines the shared result types returned by the
// analytics engine and rendered by the API layer. Nullable figures use
// pointer fields so a missing observation serializes as JSON null rather
// than a fabricated zero.
package models

// NameCount is a generic (label, count) pair used by ranking lists.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyDeathPoint is one day of derived deaths. Deaths is null when the
// underlying cumulative values were missing around this date.
type DailyDeathPoint struct {
	Date   string `json:"date"`
	Deaths *int64 `json:"deaths"`
}

// DailyDeathsReport is the response of the daily-deaths operation.
// Corrections counts the negative day-over-day revisions that were
// clamped to zero while deriving the series.
type DailyDeathsReport struct {
	Country     string            `json:"country"`
	Year        int               `json:"year"`
	TotalDeaths int64             `json:"total_deaths"`
	Days        int               `json:"days"`
	Corrections int               `json:"corrections"`
	Series      []DailyDeathPoint `json:"series"`
}

// CountrySummary is the period total of new cases or deaths for one
// country. A zero total with a positive day count is a legitimate
// "nothing happened" answer, not an error.
type CountrySummary struct {
	Country      string   `json:"country"`
	CaseType     string   `json:"case_type"`
	From         *string  `json:"from,omitempty"`
	To           *string  `json:"to,omitempty"`
	Total        int64    `json:"total"`
	Days         int      `json:"days"`
	DailyAverage *float64 `json:"daily_average"`
}

// GermanCounty is one row of the RKI county snapshot.
type GermanCounty struct {
	County       string   `json:"county"`
	Cases        *int64   `json:"cases"`
	Deaths       *int64   `json:"deaths"`
	CasesPer100k *float64 `json:"cases_per_100k"`
	DeathRate    *float64 `json:"death_rate"`
	Population   *int64   `json:"population"`
	LastUpdate   *string  `json:"last_update"`
}

// GermanyRegionalReport lists county-level figures with national totals.
type GermanyRegionalReport struct {
	Counties     []GermanCounty `json:"counties"`
	CountyCount  int            `json:"county_count"`
	TotalCases   int64          `json:"total_cases"`
	TotalDeaths  int64          `json:"total_deaths"`
	AvgDeathRate *float64       `json:"avg_death_rate"`
}

// GermanyCountiesSummary ranks the hardest-hit counties.
type GermanyCountiesSummary struct {
	TopByCases      []GermanCounty `json:"top_by_cases"`
	TotalCases      int64          `json:"total_cases"`
	TotalDeaths     int64          `json:"total_deaths"`
	AvgCasesPer100k *float64       `json:"avg_cases_per_100k"`
}

// WHOCountryAggregate is the per-country roll-up of WHO situation
// reports: cumulative columns by MAX, incremental columns by SUM, static
// attributes by first non-null.
type WHOCountryAggregate struct {
	Country           string  `json:"country"`
	TotalCases        *int64  `json:"total_cases"`
	TotalDeaths       *int64  `json:"total_deaths"`
	NewCases          *int64  `json:"new_cases"`
	NewDeaths         *int64  `json:"new_deaths"`
	Transmission      *string `json:"transmission_classification"`
	DaysSinceLastCase *int64  `json:"days_since_last_reported_case"`
}

// WHOReport is the WHO situation-report operation response.
type WHOReport struct {
	CountrySummary        []WHOCountryAggregate `json:"country_summary"`
	DetailedReports       []WHOCountryAggregate `json:"detailed_reports"`
	TransmissionBreakdown map[string]int        `json:"transmission_breakdown"`
	Countries             int                   `json:"countries"`
}

// RestrictionRow is one airline travel restriction record.
type RestrictionRow struct {
	Country     string  `json:"country"`
	Airline     *string `json:"airline"`
	Restriction *string `json:"restriction"`
	Published   *string `json:"published"`
	Sources     *string `json:"sources"`
}

// TravelRestrictionsReport counts restrictions by country. Zero
// restrictions in the window is a valid answer.
type TravelRestrictionsReport struct {
	TotalRestrictions int              `json:"total_restrictions"`
	ByCountry         []NameCount      `json:"by_country"`
	Recent            []RestrictionRow `json:"recent"`
}

// AirlinesAffectedReport ranks airlines by restriction exposure.
type AirlinesAffectedReport struct {
	TotalAirlines     int         `json:"total_airlines"`
	TotalRestrictions int         `json:"total_restrictions"`
	Top               []NameCount `json:"top"`
}

// ECDCCountryAggregate is the per-country ECDC roll-up with derived
// per-100k figures. Derived values are null when population is missing.
type ECDCCountryAggregate struct {
	Country          string   `json:"country"`
	TotalCases       *int64   `json:"total_cases"`
	TotalDeaths      *int64   `json:"total_deaths"`
	NewCases         *int64   `json:"new_cases"`
	NewDeaths        *int64   `json:"new_deaths"`
	Population       *int64   `json:"population"`
	CasesPer100k     *float64 `json:"cases_per_100k"`
	DeathsPer100k    *float64 `json:"deaths_per_100k"`
	CaseFatalityRate *float64 `json:"case_fatality_rate"`
}

// ECDCGlobalReport is the ECDC operation response.
type ECDCGlobalReport struct {
	Countries    []ECDCCountryAggregate `json:"countries"`
	CountryCount int                    `json:"country_count"`
	GlobalCases  int64                  `json:"global_cases"`
	GlobalDeaths int64                  `json:"global_deaths"`
}

// VaccinationStatus is the latest vaccination standing for one country.
type VaccinationStatus struct {
	Country               string   `json:"country"`
	Date                  *string  `json:"date"`
	TotalVaccinations     *int64   `json:"total_vaccinations"`
	PeopleVaccinated      *int64   `json:"people_vaccinated"`
	PeopleFullyVaccinated *int64   `json:"people_fully_vaccinated"`
	TotalPerHundred       *float64 `json:"total_vaccinations_per_hundred"`
	PeoplePerHundred      *float64 `json:"people_vaccinated_per_hundred"`
	FullyPerHundred       *float64 `json:"people_fully_vaccinated_per_hundred"`
	DailyVaccinations     *int64   `json:"daily_vaccinations"`
	DailyPerMillion       *float64 `json:"daily_vaccinations_per_million"`
	Vaccines              *string  `json:"vaccines"`
}

// VaccinationsReport is the per-country vaccination response.
type VaccinationsReport struct {
	Countries    []VaccinationStatus `json:"countries"`
	CountryCount int                 `json:"country_count"`
}

// TopVaccinatedReport ranks countries by full-vaccination rate and
// summarizes vaccine-type usage.
type TopVaccinatedReport struct {
	Top                  []VaccinationStatus `json:"top"`
	VaccineUsage         []NameCount         `json:"vaccine_usage"`
	AvgFullyPerHundred   *float64            `json:"avg_fully_vaccinated_per_hundred"`
	CountriesConsidered  int                 `json:"countries_considered"`
}

// SourceSection is one source's contribution to a multi-source report.
// A failed source reports available=false with the error message; the
// siblings are unaffected.
type SourceSection struct {
	Available bool        `json:"available"`
	Error     string      `json:"error,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// ComprehensiveReport fans in over every source for a set of countries.
type ComprehensiveReport struct {
	Countries   []string                 `json:"countries"`
	From        *string                  `json:"from,omitempty"`
	To          *string                  `json:"to,omitempty"`
	GeneratedAt string                   `json:"generated_at"`
	Sources     map[string]SourceSection `json:"sources"`
}
