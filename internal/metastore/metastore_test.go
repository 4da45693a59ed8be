// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package metastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.MetastoreConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("close metastore: %v", err)
		}
	})
	return s
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func TestUpsertCountryAccounting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	meta := models.CountryMetadata{
		Country:      "Germany",
		ISOCode:      "DEU",
		Population:   i64(83_100_000),
		GDPPerCapita: f64(46_200),
	}

	// Fresh insert.
	res, err := s.UpsertCountry(ctx, meta)
	require.NoError(t, err)
	assert.Equal(t, models.UpsertResult{Upserted: 1}, res)

	// Identical rewrite: matched but not modified.
	res, err = s.UpsertCountry(ctx, meta)
	require.NoError(t, err)
	assert.Equal(t, models.UpsertResult{Matched: 1}, res)

	// Changed document: matched and modified.
	meta.GDPPerCapita = f64(47_800)
	res, err = s.UpsertCountry(ctx, meta)
	require.NoError(t, err)
	assert.Equal(t, models.UpsertResult{Matched: 1, Modified: 1}, res)

	got, err := s.GetCountry(ctx, "germany")
	require.NoError(t, err)
	assert.Equal(t, 47_800.0, *got.GDPPerCapita)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestGetCountryNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCountry(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCountriesSorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Italy", "France", "Germany"} {
		_, err := s.UpsertCountry(ctx, models.CountryMetadata{Country: name})
		require.NoError(t, err)
	}

	docs, err := s.ListCountries(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "France", docs[0].Country)
	assert.Equal(t, "Germany", docs[1].Country)
	assert.Equal(t, "Italy", docs[2].Country)
}

func TestAnnotations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.AddAnnotation(ctx, models.Annotation{
		DashboardID: "overview",
		Author:      "analyst",
		Text:        "Alpha variant wave visible from mid-January",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := s.AddAnnotation(ctx, models.Annotation{
		DashboardID: "overview",
		Text:        "Vaccination uptake accelerates in March",
	})
	require.NoError(t, err)

	_, err = s.AddAnnotation(ctx, models.Annotation{
		DashboardID: "germany",
		Text:        "RKI snapshot refreshed",
	})
	require.NoError(t, err)

	notes, err := s.ListAnnotations(ctx, "overview", 0)
	require.NoError(t, err)
	require.Len(t, notes, 2, "listing is scoped to the dashboard")
	assert.Equal(t, second.ID, notes[0].ID, "newest first")
	assert.Equal(t, first.ID, notes[1].ID)

	limited, err := s.ListAnnotations(ctx, "overview", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	empty, err := s.ListAnnotations(ctx, "unknown", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
