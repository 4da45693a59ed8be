// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package engine orchestrates the analytics operations behind the HTTP
// API: it queries the source warehouse and metastore, runs the
// statistical core, and memoizes results.
//
// Every memoized operation reports, alongside its result, whether it
// was served from cache so the API layer can fill response metadata
// without re-deriving it.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/covidlens/covidlens/internal/cache"
	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/metrics"
	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/source"
	"github.com/covidlens/covidlens/internal/stats"
)

// SourceStore is the warehouse surface the engine consumes. Satisfied
// by *source.Store; narrowed to an interface so tests can stub it.
type SourceStore interface {
	CumulativeSeries(ctx context.Context, country, caseType string, from, to *string) ([]stats.CumulativePoint, error)
	CumulativeSeriesByCountry(ctx context.Context, caseType string, countries []string, from, to *string) (map[string][]stats.CumulativePoint, error)
	TotalsByCountry(ctx context.Context, countries []string, from, to *string) ([]source.JHUTotals, error)
	ECDCAggregates(ctx context.Context, countries []string, from, to *string) ([]models.ECDCCountryAggregate, error)
	DailySeries(ctx context.Context, country string, from, to *string) ([]source.ECDCDaily, error)
	WHOAggregates(ctx context.Context, countries []string, from, to *string, limit int) ([]models.WHOCountryAggregate, error)
	AvgDailyCases(ctx context.Context, countries []string, from, to *string) ([]source.CountryAverage, error)
	LatestVaccinations(ctx context.Context, countries []string, from, to *string, limit int) ([]models.VaccinationStatus, error)
	VaccinationSeries(ctx context.Context, country string, from, to *string) ([]source.OWIDDaily, error)
	RestrictionCounts(ctx context.Context, countries []string, from, to *string, limit int) ([]models.NameCount, error)
	AirlineCounts(ctx context.Context, from, to *string, limit int) ([]models.NameCount, error)
	RecentRestrictions(ctx context.Context, countries []string, from, to *string, limit int) ([]models.RestrictionRow, error)
	Counties(ctx context.Context, from, to *string, limit int) ([]models.GermanCounty, error)
	Ping(ctx context.Context) error
	RowCounts(ctx context.Context) (map[string]int64, error)
}

// MetaStore is the document-store surface. Satisfied by
// *metastore.Store.
type MetaStore interface {
	UpsertCountry(ctx context.Context, meta models.CountryMetadata) (models.UpsertResult, error)
	ListCountries(ctx context.Context) ([]models.CountryMetadata, error)
	AddAnnotation(ctx context.Context, a models.Annotation) (models.Annotation, error)
	ListAnnotations(ctx context.Context, dashboardID string, limit int) ([]models.Annotation, error)
	Healthy() error
}

// Engine wires the stores, the memoizer, and the analytics policy
// together.
type Engine struct {
	src  SourceStore
	meta MetaStore
	memo *cache.Memoizer
	cfg  config.AnalyticsConfig
}

// New builds an engine. memo may be nil to disable memoization, which
// tests use to hit the compute path every call.
func New(src SourceStore, meta MetaStore, memo *cache.Memoizer, cfg config.AnalyticsConfig) *Engine {
	return &Engine{src: src, meta: meta, memo: memo, cfg: cfg}
}

// memoize runs fn through the engine's memoizer under the operation
// name, recording operation metrics on the compute path. The bool
// reports a cache hit.
func memoize[T any](e *Engine, op string, params any, fn func() (T, error)) (T, bool, error) {
	compute := func() (any, error) {
		start := time.Now()
		v, err := fn()
		metrics.RecordAnalyticsOp(op, time.Since(start), err)
		if err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}

	var raw any
	var cached bool
	var err error
	if e.memo != nil {
		raw, cached, err = e.memo.Do(op, params, compute)
	} else {
		raw, err = compute()
	}
	if err != nil {
		var zero T
		return zero, false, err
	}

	typed, ok := raw.(T)
	if !ok {
		var zero T
		return zero, false, fmt.Errorf("unexpected cached type %T for operation %s", raw, op)
	}
	return typed, cached, nil
}

// yearRange renders the inclusive date bounds of a calendar year.
func yearRange(year int) (*string, *string) {
	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-12-31", year)
	return &from, &to
}
