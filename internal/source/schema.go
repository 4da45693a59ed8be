// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package source

import (
	"context"
	"fmt"
	"time"
)

// sourceTables lists every warehouse table, in catalog order.
var sourceTables = []string{
	TableJHU,
	TableECDC,
	TableWHO,
	TableOWID,
	TableRestrictions,
	TableRKI,
}

// Warehouse table names.
const (
	TableJHU          = "jhu_covid19_timeseries"
	TableECDC         = "ecdc_global"
	TableWHO          = "who_situation_reports"
	TableOWID         = "owid_vaccinations"
	TableRestrictions = "hum_restrictions_airline"
	TableRKI          = "rki_de_dashboard"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the six source tables if they do not exist. All
// columns are defined up front; the ingest pipelines own the data, this
// service only reads it.
func (s *Store) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS jhu_covid19_timeseries (
			country_region VARCHAR NOT NULL,
			province_state VARCHAR,
			date DATE NOT NULL,
			case_type VARCHAR NOT NULL,
			cases BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS ecdc_global (
			country_region VARCHAR NOT NULL,
			date DATE NOT NULL,
			cases BIGINT,
			deaths BIGINT,
			cases_since_prev_day BIGINT,
			deaths_since_prev_day BIGINT,
			population BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS who_situation_reports (
			country VARCHAR NOT NULL,
			date DATE NOT NULL,
			total_cases BIGINT,
			cases_new BIGINT,
			deaths BIGINT,
			deaths_new BIGINT,
			transmission_classification VARCHAR,
			days_since_last_reported_case BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS owid_vaccinations (
			country_region VARCHAR NOT NULL,
			date DATE NOT NULL,
			total_vaccinations BIGINT,
			people_vaccinated BIGINT,
			people_fully_vaccinated BIGINT,
			total_vaccinations_per_hundred DOUBLE,
			people_vaccinated_per_hundred DOUBLE,
			people_fully_vaccinated_per_hundred DOUBLE,
			daily_vaccinations BIGINT,
			daily_vaccinations_per_million DOUBLE,
			vaccines VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS hum_restrictions_airline (
			country VARCHAR NOT NULL,
			airline VARCHAR,
			restriction_text VARCHAR,
			published DATE,
			sources VARCHAR,
			lat DOUBLE,
			long DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS rki_de_dashboard (
			county VARCHAR NOT NULL,
			state VARCHAR,
			cases BIGINT,
			deaths BIGINT,
			cases_per_100k DOUBLE,
			death_rate DOUBLE,
			population BIGINT,
			last_update_date DATE
		)`,
	}

	for _, q := range queries {
		if _, err := s.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	return s.createIndexes(ctx)
}

// createIndexes covers the frequent filter columns: country plus date on
// the time-series tables, published on the restrictions event table.
func (s *Store) createIndexes(ctx context.Context) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_jhu_country_date ON jhu_covid19_timeseries (country_region, case_type, date)`,
		`CREATE INDEX IF NOT EXISTS idx_ecdc_country_date ON ecdc_global (country_region, date)`,
		`CREATE INDEX IF NOT EXISTS idx_who_country_date ON who_situation_reports (country, date)`,
		`CREATE INDEX IF NOT EXISTS idx_owid_country_date ON owid_vaccinations (country_region, date)`,
		`CREATE INDEX IF NOT EXISTS idx_restrictions_published ON hum_restrictions_airline (published)`,
		`CREATE INDEX IF NOT EXISTS idx_rki_county ON rki_de_dashboard (county)`,
	}

	for _, q := range indexes {
		if _, err := s.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
