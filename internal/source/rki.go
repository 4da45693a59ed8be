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

// Counties returns the RKI county snapshot ordered by case count
// descending. The table holds one row per county; from/to bound the
// snapshot date when given.
func (s *Store) Counties(ctx context.Context, from, to *string, limit int) (counties []models.GermanCounty, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("counties", SourceRKI, time.Since(start), err) }()

	var f queryFilter
	f.dateRange("last_update_date", from, to)

	query := `
		SELECT county, cases, deaths, cases_per_100k, death_rate, population, last_update_date
		FROM rki_de_dashboard
		` + f.where() + `
		ORDER BY cases DESC NULLS LAST, county`
	if limit > 0 {
		query += `
		LIMIT ?`
		f.args = append(f.args, limit)
	}

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			c                  models.GermanCounty
			cases, deaths, pop sql.NullInt64
			per100k, rate      sql.NullFloat64
			updated            sql.NullTime
		)
		if err := rows.Scan(&c.County, &cases, &deaths, &per100k, &rate, &pop, &updated); err != nil {
			return err
		}
		c.Cases = nullInt(cases)
		c.Deaths = nullInt(deaths)
		c.CasesPer100k = nullFloat(per100k)
		c.DeathRate = nullFloat(rate)
		c.Population = nullInt(pop)
		c.LastUpdate = nullDate(updated)
		counties = append(counties, c)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceRKI, err)
	}
	return counties, nil
}
