// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package engine

import (
	"context"
	"strings"

	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/source"
	"github.com/covidlens/covidlens/internal/stats"
)

// stubSource is a canned-data SourceStore. errs injects a failure per
// method name; calls counts invocations for memoization assertions.
type stubSource struct {
	series            map[string][]stats.CumulativePoint // "country|caseType"
	seriesByCountry   map[string][]stats.CumulativePoint
	totals            []source.JHUTotals
	ecdc              []models.ECDCCountryAggregate
	daily             map[string][]source.ECDCDaily
	who               []models.WHOCountryAggregate
	avgCases          []source.CountryAverage
	vax               []models.VaccinationStatus
	vaxSeries         map[string][]source.OWIDDaily
	restrictionCounts []models.NameCount
	airlineCounts     []models.NameCount
	recent            []models.RestrictionRow
	counties          []models.GermanCounty
	rowCounts         map[string]int64

	errs  map[string]error
	calls map[string]int
}

func newStubSource() *stubSource {
	return &stubSource{
		series:    make(map[string][]stats.CumulativePoint),
		daily:     make(map[string][]source.ECDCDaily),
		vaxSeries: make(map[string][]source.OWIDDaily),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (s *stubSource) hit(method string) error {
	s.calls[method]++
	return s.errs[method]
}

func (s *stubSource) CumulativeSeries(_ context.Context, country, caseType string, _, _ *string) ([]stats.CumulativePoint, error) {
	if err := s.hit("CumulativeSeries"); err != nil {
		return nil, err
	}
	return s.series[strings.ToLower(country)+"|"+caseType], nil
}

func (s *stubSource) CumulativeSeriesByCountry(_ context.Context, _ string, _ []string, _, _ *string) (map[string][]stats.CumulativePoint, error) {
	if err := s.hit("CumulativeSeriesByCountry"); err != nil {
		return nil, err
	}
	return s.seriesByCountry, nil
}

func (s *stubSource) TotalsByCountry(_ context.Context, _ []string, _, _ *string) ([]source.JHUTotals, error) {
	if err := s.hit("TotalsByCountry"); err != nil {
		return nil, err
	}
	return s.totals, nil
}

func (s *stubSource) ECDCAggregates(_ context.Context, _ []string, _, _ *string) ([]models.ECDCCountryAggregate, error) {
	if err := s.hit("ECDCAggregates"); err != nil {
		return nil, err
	}
	return s.ecdc, nil
}

func (s *stubSource) DailySeries(_ context.Context, country string, _, _ *string) ([]source.ECDCDaily, error) {
	if err := s.hit("DailySeries"); err != nil {
		return nil, err
	}
	return s.daily[strings.ToLower(country)], nil
}

func (s *stubSource) WHOAggregates(_ context.Context, _ []string, _, _ *string, _ int) ([]models.WHOCountryAggregate, error) {
	if err := s.hit("WHOAggregates"); err != nil {
		return nil, err
	}
	return s.who, nil
}

func (s *stubSource) AvgDailyCases(_ context.Context, _ []string, _, _ *string) ([]source.CountryAverage, error) {
	if err := s.hit("AvgDailyCases"); err != nil {
		return nil, err
	}
	return s.avgCases, nil
}

func (s *stubSource) LatestVaccinations(_ context.Context, _ []string, _, _ *string, _ int) ([]models.VaccinationStatus, error) {
	if err := s.hit("LatestVaccinations"); err != nil {
		return nil, err
	}
	return s.vax, nil
}

func (s *stubSource) VaccinationSeries(_ context.Context, country string, _, _ *string) ([]source.OWIDDaily, error) {
	if err := s.hit("VaccinationSeries"); err != nil {
		return nil, err
	}
	return s.vaxSeries[strings.ToLower(country)], nil
}

func (s *stubSource) RestrictionCounts(_ context.Context, _ []string, _, _ *string, _ int) ([]models.NameCount, error) {
	if err := s.hit("RestrictionCounts"); err != nil {
		return nil, err
	}
	return s.restrictionCounts, nil
}

func (s *stubSource) AirlineCounts(_ context.Context, _, _ *string, _ int) ([]models.NameCount, error) {
	if err := s.hit("AirlineCounts"); err != nil {
		return nil, err
	}
	return s.airlineCounts, nil
}

func (s *stubSource) RecentRestrictions(_ context.Context, _ []string, _, _ *string, _ int) ([]models.RestrictionRow, error) {
	if err := s.hit("RecentRestrictions"); err != nil {
		return nil, err
	}
	return s.recent, nil
}

func (s *stubSource) Counties(_ context.Context, _, _ *string, limit int) ([]models.GermanCounty, error) {
	if err := s.hit("Counties"); err != nil {
		return nil, err
	}
	if limit > 0 && len(s.counties) > limit {
		return s.counties[:limit], nil
	}
	return s.counties, nil
}

func (s *stubSource) Ping(_ context.Context) error {
	return s.errs["Ping"]
}

func (s *stubSource) RowCounts(_ context.Context) (map[string]int64, error) {
	if err := s.hit("RowCounts"); err != nil {
		return nil, err
	}
	return s.rowCounts, nil
}

// stubMeta is a map-backed MetaStore.
type stubMeta struct {
	docs        map[string]models.CountryMetadata
	annotations []models.Annotation
	healthErr   error
}

func newStubMeta() *stubMeta {
	return &stubMeta{docs: make(map[string]models.CountryMetadata)}
}

func (m *stubMeta) UpsertCountry(_ context.Context, meta models.CountryMetadata) (models.UpsertResult, error) {
	key := strings.ToUpper(meta.Country)
	if _, ok := m.docs[key]; ok {
		m.docs[key] = meta
		return models.UpsertResult{Matched: 1, Modified: 1}, nil
	}
	m.docs[key] = meta
	return models.UpsertResult{Upserted: 1}, nil
}

func (m *stubMeta) ListCountries(_ context.Context) ([]models.CountryMetadata, error) {
	out := make([]models.CountryMetadata, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	return out, nil
}

func (m *stubMeta) AddAnnotation(_ context.Context, a models.Annotation) (models.Annotation, error) {
	a.ID = "stub"
	m.annotations = append(m.annotations, a)
	return a, nil
}

func (m *stubMeta) ListAnnotations(_ context.Context, dashboardID string, _ int) ([]models.Annotation, error) {
	var out []models.Annotation
	for _, a := range m.annotations {
		if a.DashboardID == dashboardID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *stubMeta) Healthy() error { return m.healthErr }
