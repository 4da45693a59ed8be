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

// RestrictionCounts counts airline travel restrictions per country
// within the window, most restricted first. An event table aggregates
// by COUNT; an empty result is a valid zero-restrictions answer.
func (s *Store) RestrictionCounts(ctx context.Context, countries []string, from, to *string, limit int) (counts []models.NameCount, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("restriction_counts", SourceRestrictions, time.Since(start), err) }()

	var f queryFilter
	f.countries("country", countries)
	f.dateRange("published", from, to)

	query := `
		SELECT country, COUNT(*)
		FROM hum_restrictions_airline
		` + f.where() + `
		GROUP BY country
		ORDER BY COUNT(*) DESC, country`
	if limit > 0 {
		query += `
		LIMIT ?`
		f.args = append(f.args, limit)
	}

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var nc models.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return err
		}
		counts = append(counts, nc)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceRestrictions, err)
	}
	return counts, nil
}

// AirlineCounts ranks airlines by number of restrictions affecting
// them. Rows with no airline attribution are skipped.
func (s *Store) AirlineCounts(ctx context.Context, from, to *string, limit int) (counts []models.NameCount, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("airline_counts", SourceRestrictions, time.Since(start), err) }()

	var f queryFilter
	f.conds = append(f.conds, "airline IS NOT NULL", "airline <> ''")
	f.dateRange("published", from, to)

	query := `
		SELECT airline, COUNT(*)
		FROM hum_restrictions_airline
		` + f.where() + `
		GROUP BY airline
		ORDER BY COUNT(*) DESC, airline`
	if limit > 0 {
		query += `
		LIMIT ?`
		f.args = append(f.args, limit)
	}

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var nc models.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return err
		}
		counts = append(counts, nc)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceRestrictions, err)
	}
	return counts, nil
}

// RecentRestrictions returns the most recently published restriction
// rows within the window.
func (s *Store) RecentRestrictions(ctx context.Context, countries []string, from, to *string, limit int) (restrictions []models.RestrictionRow, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery("recent_restrictions", SourceRestrictions, time.Since(start), err) }()

	var f queryFilter
	f.countries("country", countries)
	f.dateRange("published", from, to)

	query := `
		SELECT country, airline, restriction_text, published, sources
		FROM hum_restrictions_airline
		` + f.where() + `
		ORDER BY published DESC NULLS LAST`
	if limit > 0 {
		query += `
		LIMIT ?`
		f.args = append(f.args, limit)
	}

	err = s.queryAndScan(ctx, query, f.args, func(rows *sql.Rows) error {
		var (
			r                      models.RestrictionRow
			airline, text, sources sql.NullString
			published              sql.NullTime
		)
		if err := rows.Scan(&r.Country, &airline, &text, &published, &sources); err != nil {
			return err
		}
		r.Airline = nullString(airline)
		r.Restriction = nullString(text)
		r.Published = nullDate(published)
		r.Sources = nullString(sources)
		restrictions = append(restrictions, r)
		return nil
	})
	if err != nil {
		return nil, unavailable(SourceRestrictions, err)
	}
	return restrictions, nil
}
