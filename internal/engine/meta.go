// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package engine

import (
	"context"

	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/source"
)

// Version is stamped by the build; surfaced in the health response.
var Version = "dev"

// UpsertCountryMeta writes a country metadata document and invalidates
// the memoized analyses that join against it.
func (e *Engine) UpsertCountryMeta(ctx context.Context, meta models.CountryMetadata) (models.UpsertResult, error) {
	result, err := e.meta.UpsertCountry(ctx, meta)
	if err != nil {
		return models.UpsertResult{}, err
	}
	if e.memo != nil && result.Modified+result.Upserted > 0 {
		// GDP and population feed the mortality analyses; stale joins
		// would outlive the document update otherwise.
		e.memo.Flush()
	}
	return result, nil
}

// ListCountryMeta returns every stored country document.
func (e *Engine) ListCountryMeta(ctx context.Context) ([]models.CountryMetadata, error) {
	return e.meta.ListCountries(ctx)
}

// AddAnnotation stores a dashboard annotation.
func (e *Engine) AddAnnotation(ctx context.Context, a models.Annotation) (models.Annotation, error) {
	return e.meta.AddAnnotation(ctx, a)
}

// ListAnnotations lists a dashboard's annotations, newest first.
func (e *Engine) ListAnnotations(ctx context.Context, dashboardID string, limit int) ([]models.Annotation, error) {
	return e.meta.ListAnnotations(ctx, dashboardID, limit)
}

// Health checks both stores. Verbose mode includes per-table row
// counts. The overall status is healthy only when every component is.
func (e *Engine) Health(ctx context.Context, verbose bool) models.HealthStatus {
	status := models.HealthStatus{
		Status:  "healthy",
		Version: Version,
	}

	status.Database.Status = "healthy"
	if err := e.src.Ping(ctx); err != nil {
		status.Database.Status = "unhealthy"
		status.Database.Error = err.Error()
		status.Status = "degraded"
	} else if verbose {
		counts, err := e.src.RowCounts(ctx)
		if err != nil {
			status.Database.Status = "degraded"
			status.Database.Error = err.Error()
			status.Status = "degraded"
		} else {
			status.Database.RowCounts = counts
		}
	}

	status.Metastore.Status = "healthy"
	if err := e.meta.Healthy(); err != nil {
		status.Metastore.Status = "unhealthy"
		status.Metastore.Error = err.Error()
		status.Status = "degraded"
	}

	return status
}

// DataSourcesInfo is the static source catalog.
func (e *Engine) DataSourcesInfo() []models.SourceCatalogEntry {
	return []models.SourceCatalogEntry{
		{
			Key:      source.SourceJHU,
			Name:     "JHU CSSE COVID-19 time series",
			Table:    source.TableJHU,
			Provider: "Johns Hopkins University CSSE",
			Grain:    "country, date, case type",
			Metrics:  []string{"confirmed", "deaths", "recovered"},
		},
		{
			Key:      source.SourceECDC,
			Name:     "ECDC worldwide cases and deaths",
			Table:    source.TableECDC,
			Provider: "European Centre for Disease Prevention and Control",
			Grain:    "country, date",
			Metrics:  []string{"cases", "deaths", "cases_since_prev_day", "deaths_since_prev_day", "population"},
		},
		{
			Key:      source.SourceWHO,
			Name:     "WHO situation reports",
			Table:    source.TableWHO,
			Provider: "World Health Organization",
			Grain:    "country, report date",
			Metrics:  []string{"total_cases", "cases_new", "deaths", "deaths_new", "transmission_classification"},
		},
		{
			Key:      source.SourceOWID,
			Name:     "OWID vaccination progress",
			Table:    source.TableOWID,
			Provider: "Our World in Data",
			Grain:    "country, date",
			Metrics:  []string{"total_vaccinations", "people_vaccinated", "people_fully_vaccinated", "daily_vaccinations"},
		},
		{
			Key:      source.SourceRestrictions,
			Name:     "Humanitarian Data Exchange airline restrictions",
			Table:    source.TableRestrictions,
			Provider: "HDX",
			Grain:    "one row per restriction",
			Metrics:  []string{"restriction count"},
		},
		{
			Key:      source.SourceRKI,
			Name:     "RKI COVID-19 dashboard county snapshot",
			Table:    source.TableRKI,
			Provider: "Robert Koch-Institut",
			Grain:    "German county",
			Metrics:  []string{"cases", "deaths", "cases_per_100k", "death_rate"},
		},
	}
}
