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
	"github.com/covidlens/covidlens/internal/stats"
)

// JHU case types as they appear in the case_type column.
const (
	CaseTypeConfirmed = "confirmed"
	CaseTypeDeaths    = "deaths"
	CaseTypeRecovered = "recovered"
)

// JHUTotals is the per-country roll-up of the JHU time series: the
// latest cumulative count per case type within the window.
type JHUTotals struct {
	Country string
	Cases   *float64
	Deaths  *float64
}

// CumulativeSeries returns one country's cumulative series for a case
// type, summed across province rows per date, ordered by date. Missing
// counts scan as nil values so the delta extractor can propagate gaps.
func (s *Store) CumulativeSeries(ctx context.Context, country, caseType string, from, to *string) (points []stats.CumulativePoint, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("cumulative_series", SourceJHU, time.Since(start), err) }()

	var f queryFilter
	f.country("country_region", country)
	f.conds = append(f.conds, "case_type = ?")
	f.args = append(f.args, caseType)
	f.dateRange("date", from, to)

	query := `
		SELECT date, SUM(cases)
		FROM jhu_covid19_timeseries
		` + f.where() + `
		GROUP BY date
		ORDER BY date`

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			date  time.Time
			value sql.NullFloat64
		)
		if err := rows.Scan(&date, &value); err != nil {
			return err
		}
		points = append(points, stats.CumulativePoint{Date: date, Value: nullFloat(value)})
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceJHU, err)
	}
	return points, nil
}

// CumulativeSeriesByCountry returns the cumulative series of every
// requested country keyed by the country name as stored.
func (s *Store) CumulativeSeriesByCountry(ctx context.Context, caseType string, countries []string, from, to *string) (series map[string][]stats.CumulativePoint, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordSourceQuery("cumulative_series_by_country", SourceJHU, time.Since(start), err)
	}()

	var f queryFilter
	f.conds = append(f.conds, "case_type = ?")
	f.args = append(f.args, caseType)
	f.countries("country_region", countries)
	f.dateRange("date", from, to)

	query := `
		SELECT country_region, date, SUM(cases)
		FROM jhu_covid19_timeseries
		` + f.where() + `
		GROUP BY country_region, date
		ORDER BY country_region, date`

	series = make(map[string][]stats.CumulativePoint)
	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			country string
			date    time.Time
			value   sql.NullFloat64
		)
		if err := rows.Scan(&country, &date, &value); err != nil {
			return err
		}
		series[country] = append(series[country], stats.CumulativePoint{Date: date, Value: nullFloat(value)})
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceJHU, err)
	}
	return series, nil
}

// TotalsByCountry pivots the latest cumulative confirmed and deaths
// counts per country within the window.
func (s *Store) TotalsByCountry(ctx context.Context, countries []string, from, to *string) (totals []JHUTotals, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("totals_by_country", SourceJHU, time.Since(start), err) }()

	var f queryFilter
	f.countries("country_region", countries)
	f.dateRange("date", from, to)

	// Cumulative columns aggregate by MAX; the per-date province SUM
	// happens first so multi-province countries are not undercounted.
	query := `
		WITH per_date AS (
			SELECT country_region, date, case_type, SUM(cases) AS cases
			FROM jhu_covid19_timeseries
			` + f.where() + `
			GROUP BY country_region, date, case_type
		)
		SELECT
			country_region,
			MAX(cases) FILTER (WHERE case_type = 'confirmed'),
			MAX(cases) FILTER (WHERE case_type = 'deaths')
		FROM per_date
		GROUP BY country_region
		ORDER BY country_region`

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			t      JHUTotals
			cases  sql.NullFloat64
			deaths sql.NullFloat64
		)
		if err := rows.Scan(&t.Country, &cases, &deaths); err != nil {
			return err
		}
		t.Cases = nullFloat(cases)
		t.Deaths = nullFloat(deaths)
		totals = append(totals, t)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceJHU, err)
	}
	return totals, nil
}
