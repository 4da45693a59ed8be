// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package api

import (
	"context"

	"github.com/covidlens/covidlens/internal/models"
)

// Analytics is the engine surface the handlers consume. Satisfied by
// *engine.Engine; narrowed to an interface so handler tests can stub
// it. The bool in each triple reports whether the result came from the
// memoizer.
type Analytics interface {
	DailyDeaths(ctx context.Context, country string, year int) (models.DailyDeathsReport, bool, error)
	Summary(ctx context.Context, country, caseType string, from, to *string) (models.CountrySummary, bool, error)
	GermanyRegional(ctx context.Context, from, to *string) (models.GermanyRegionalReport, bool, error)
	GermanyCountiesSummary(ctx context.Context, from, to *string, topN int) (models.GermanyCountiesSummary, bool, error)
	WHOReports(ctx context.Context, from, to *string, limit int) (models.WHOReport, bool, error)
	TravelRestrictions(ctx context.Context, from, to *string) (models.TravelRestrictionsReport, bool, error)
	AirlinesAffected(ctx context.Context, from, to *string, topN int) (models.AirlinesAffectedReport, bool, error)
	ECDCGlobal(ctx context.Context, countries []string, from, to *string) (models.ECDCGlobalReport, bool, error)
	Vaccinations(ctx context.Context, countries []string, from, to *string) (models.VaccinationsReport, bool, error)
	TopVaccinated(ctx context.Context, limit int) (models.TopVaccinatedReport, bool, error)
	ComprehensiveReport(ctx context.Context, countries []string, from, to *string) (models.ComprehensiveReport, bool, error)

	MortalityVsGDP(ctx context.Context, year int, countries []string) (models.MortalityGDPReport, bool, error)
	PredictInfections(ctx context.Context, country string, horizon int) (models.ForecastReport, bool, error)
	VaccinationVsMortality(ctx context.Context, countries []string, from, to *string) (models.VaccinationMortalityReport, bool, error)
	TravelRestrictionsImpact(ctx context.Context, countries []string, from, to *string) (models.RestrictionsImpactReport, bool, error)
	MultiSourceComparison(ctx context.Context, countries []string, from, to *string) (models.MultiSourceComparisonReport, bool, error)
	PandemicTimeline(ctx context.Context, countries []string, from, to *string, includeMilestones bool) (models.PandemicTimelineReport, bool, error)
	DataSourceQuality(ctx context.Context, countries []string, from, to *string) (models.DataSourceQualityReport, bool, error)
	CrossValidation(ctx context.Context, countries []string, from, to *string, metric string) (models.CrossValidationReport, bool, error)
	CorrelationMatrix(ctx context.Context, countries []string, from, to *string) (models.CorrelationMatrixReport, bool, error)

	UpsertCountryMeta(ctx context.Context, meta models.CountryMetadata) (models.UpsertResult, error)
	ListCountryMeta(ctx context.Context) ([]models.CountryMetadata, error)
	AddAnnotation(ctx context.Context, a models.Annotation) (models.Annotation, error)
	ListAnnotations(ctx context.Context, dashboardID string, limit int) ([]models.Annotation, error)
	Health(ctx context.Context, verbose bool) models.HealthStatus
	DataSourcesInfo() []models.SourceCatalogEntry
}

// Handler carries the endpoint implementations.
type Handler struct {
	engine Analytics
}

// NewHandler builds the handler set on top of an engine.
func NewHandler(engine Analytics) *Handler {
	return &Handler{engine: engine}
}
