// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package source

import (
	"context"
	"database/sql"
	"time"

	"github.com/covidlens/covidlens/internal/metrics"
	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/sanitize"
)

// ECDCDaily is one country-date row of the ECDC table with its
// cumulative counts. Used by the timeline extractor.
type ECDCDaily struct {
	Date   time.Time
	Cases  *float64
	Deaths *float64
}

// ECDCAggregates rolls the ECDC table up per country: cumulative
// columns by MAX, incremental columns by SUM, population by first
// non-null. Per-100k figures and case fatality rate are derived here
// and stay nil when population is missing.
func (s *Store) ECDCAggregates(ctx context.Context, countries []string, from, to *string) (aggs []models.ECDCCountryAggregate, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("country_aggregates", SourceECDC, time.Since(start), err) }()

	var f queryFilter
	f.countries("country_region", countries)
	f.dateRange("date", from, to)

	query := `
		SELECT
			country_region,
			MAX(cases),
			MAX(deaths),
			SUM(cases_since_prev_day),
			SUM(deaths_since_prev_day),
			any_value(population)
		FROM ecdc_global
		` + f.where() + `
		GROUP BY country_region
		ORDER BY MAX(cases) DESC NULLS LAST`

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			a                                        models.ECDCCountryAggregate
			cases, deaths, newCases, newDeaths, popn sql.NullInt64
		)
		if err := rows.Scan(&a.Country, &cases, &deaths, &newCases, &newDeaths, &popn); err != nil {
			return err
		}
		a.TotalCases = nullInt(cases)
		a.TotalDeaths = nullInt(deaths)
		a.NewCases = nullInt(newCases)
		a.NewDeaths = nullInt(newDeaths)
		a.Population = nullInt(popn)
		deriveECDCRates(&a)
		aggs = append(aggs, a)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceECDC, err)
	}
	return aggs, nil
}

// DailySeries returns one country's cumulative cases and deaths per
// date, ordered by date.
func (s *Store) DailySeries(ctx context.Context, country string, from, to *string) (days []ECDCDaily, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("daily_series", SourceECDC, time.Since(start), err) }()

	var f queryFilter
	f.country("country_region", country)
	f.dateRange("date", from, to)

	query := `
		SELECT date, MAX(cases), MAX(deaths)
		FROM ecdc_global
		` + f.where() + `
		GROUP BY date
		ORDER BY date`

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			d             ECDCDaily
			cases, deaths sql.NullFloat64
		)
		if err := rows.Scan(&d.Date, &cases, &deaths); err != nil {
			return err
		}
		d.Cases = nullFloat(cases)
		d.Deaths = nullFloat(deaths)
		days = append(days, d)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceECDC, err)
	}
	return days, nil
}

// deriveECDCRates fills the population-adjusted fields when population
// and the respective numerator are present.
func deriveECDCRates(a *models.ECDCCountryAggregate) {
	if a.Population != nil && *a.Population > 0 {
		pop := float64(*a.Population)
		if a.TotalCases != nil {
			v := sanitize.Round(float64(*a.TotalCases)/pop*100000, 2)
			a.CasesPer100k = &v
		}
		if a.TotalDeaths != nil {
			v := sanitize.Round(float64(*a.TotalDeaths)/pop*100000, 2)
			a.DeathsPer100k = &v
		}
	}
	if a.TotalCases != nil && *a.TotalCases > 0 && a.TotalDeaths != nil {
		v := sanitize.Round(float64(*a.TotalDeaths)/float64(*a.TotalCases)*100, 2)
		a.CaseFatalityRate = &v
	}
}
