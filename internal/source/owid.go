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

// OWIDDaily is one country-date vaccination observation used by the
// timeline extractor.
type OWIDDaily struct {
	Date              time.Time
	TotalVaccinations *float64
}

// LatestVaccinations returns each country's most recent vaccination row
// within the window. Limit of 0 means no limit; results are ordered by
// people_fully_vaccinated_per_hundred descending so the same query
// serves the top-vaccinated ranking.
func (s *Store) LatestVaccinations(ctx context.Context, countries []string, from, to *string, limit int) (rows []models.VaccinationStatus, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("latest_vaccinations", SourceOWID, time.Since(start), err) }()

	var f queryFilter
	f.countries("country_region", countries)
	f.dateRange("date", from, to)

	query := `
		SELECT
			country_region,
			date,
			total_vaccinations,
			people_vaccinated,
			people_fully_vaccinated,
			total_vaccinations_per_hundred,
			people_vaccinated_per_hundred,
			people_fully_vaccinated_per_hundred,
			daily_vaccinations,
			daily_vaccinations_per_million,
			vaccines
		FROM owid_vaccinations
		` + f.where() + `
		QUALIFY row_number() OVER (PARTITION BY country_region ORDER BY date DESC) = 1
		ORDER BY people_fully_vaccinated_per_hundred DESC NULLS LAST`
	if limit > 0 {
		query += `
		LIMIT ?`
		f.args = append(f.args, limit)
	}

	err = s.queryAndScan(ctx, query, f.args, func(r *sql.Rows) error {
		var (
			v                          models.VaccinationStatus
			date                       sql.NullTime
			total, people, fully       sql.NullInt64
			totalPH, peoplePH, fullyPH sql.NullFloat64
			daily                      sql.NullInt64
			dailyPM                    sql.NullFloat64
			vaccines                   sql.NullString
		)
		if err := r.Scan(&v.Country, &date, &total, &people, &fully,
			&totalPH, &peoplePH, &fullyPH, &daily, &dailyPM, &vaccines); err != nil {
			return err
		}
		v.Date = nullDate(date)
		v.TotalVaccinations = nullInt(total)
		v.PeopleVaccinated = nullInt(people)
		v.PeopleFullyVaccinated = nullInt(fully)
		v.TotalPerHundred = nullFloat(totalPH)
		v.PeoplePerHundred = nullFloat(peoplePH)
		v.FullyPerHundred = nullFloat(fullyPH)
		v.DailyVaccinations = nullInt(daily)
		v.DailyPerMillion = nullFloat(dailyPM)
		v.Vaccines = nullString(vaccines)
		rows = append(rows, v)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceOWID, err)
	}
	return rows, nil
}

// VaccinationSeries returns one country's total_vaccinations per date,
// ordered by date.
func (s *Store) VaccinationSeries(ctx context.Context, country string, from, to *string) (days []OWIDDaily, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("vaccination_series", SourceOWID, time.Since(start), err) }()

	var f queryFilter
	f.country("country_region", country)
	f.dateRange("date", from, to)

	query := `
		SELECT date, MAX(total_vaccinations)
		FROM owid_vaccinations
		` + f.where() + `
		GROUP BY date
		ORDER BY date`

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			d     OWIDDaily
			total sql.NullFloat64
		)
		if err := rows.Scan(&d.Date, &total); err != nil {
			return err
		}
		d.TotalVaccinations = nullFloat(total)
		days = append(days, d)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceOWID, err)
	}
	return days, nil
}
