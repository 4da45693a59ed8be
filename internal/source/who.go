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
)

// CountryAverage is a per-country mean of an incremental column.
type CountryAverage struct {
	Country string
	Value   float64
}

// WHOAggregates rolls the WHO situation reports up per country.
// Cumulative columns by MAX, new-case columns by SUM, transmission
// classification by first non-null, days since last case from the
// latest report. Results are ordered by total cases descending; limit
// of 0 means no limit.
func (s *Store) WHOAggregates(ctx context.Context, countries []string, from, to *string, limit int) (aggs []models.WHOCountryAggregate, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("country_aggregates", SourceWHO, time.Since(start), err) }()

	var f queryFilter
	f.countries("country", countries)
	f.dateRange("date", from, to)

	query := `
		SELECT
			country,
			MAX(total_cases),
			MAX(deaths),
			SUM(cases_new),
			SUM(deaths_new),
			any_value(transmission_classification),
			arg_max(days_since_last_reported_case, date)
		FROM who_situation_reports
		` + f.where() + `
		GROUP BY country
		ORDER BY MAX(total_cases) DESC NULLS LAST`
	if limit > 0 {
		query += `
		LIMIT ?`
		f.args = append(f.args, limit)
	}

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			a                                        models.WHOCountryAggregate
			cases, deaths, newCases, newDeaths, days sql.NullInt64
			transmission                             sql.NullString
		)
		if err := rows.Scan(&a.Country, &cases, &deaths, &newCases, &newDeaths, &transmission, &days); err != nil {
			return err
		}
		a.TotalCases = nullInt(cases)
		a.TotalDeaths = nullInt(deaths)
		a.NewCases = nullInt(newCases)
		a.NewDeaths = nullInt(newDeaths)
		a.Transmission = nullString(transmission)
		a.DaysSinceLastCase = nullInt(days)
		aggs = append(aggs, a)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceWHO, err)
	}
	return aggs, nil
}

// AvgDailyCases returns the mean of cases_new per country over the
// window. Countries whose reports carry only NULL counts are omitted.
func (s *Store) AvgDailyCases(ctx context.Context, countries []string, from, to *string) (avgs []CountryAverage, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("avg_daily_cases", SourceWHO, time.Since(start), err) }()

	var f queryFilter
	f.countries("country", countries)
	f.dateRange("date", from, to)

	query := `
		SELECT country, AVG(cases_new)
		FROM who_situation_reports
		` + f.where() + `
		GROUP BY country
		HAVING AVG(cases_new) IS NOT NULL
		ORDER BY AVG(cases_new) DESC`

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var a CountryAverage
		if err := rows.Scan(&a.Country, &a.Value); err != nil {
			return err
		}
		avgs = append(avgs, a)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceWHO, err)
	}
	return avgs, nil
}
