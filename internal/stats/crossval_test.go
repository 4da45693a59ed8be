// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossValidateAgreement(t *testing.T) {
	c := CrossValidate("Germany", map[string]float64{
		"jhu":  100,
		"ecdc": 110,
		"who":  90,
	}, DefaultScales())
	require.NotNil(t, c)

	assert.Equal(t, "Germany", c.Entity)
	assert.Equal(t, []string{"ecdc", "jhu", "who"}, c.Sources)
	assert.InDelta(t, 100.0, c.Mean, 1e-12)
	assert.InDelta(t, 8.1650, c.StdDev, 1e-4, "population standard deviation")
	assert.InDelta(t, 8.1650, c.CV, 1e-4)
	assert.Equal(t, "consistent", c.ConsistencyRating)
	assert.False(t, c.Discrepancy)
}

func TestCrossValidateDiscrepancy(t *testing.T) {
	c := CrossValidate("Atlantis", map[string]float64{
		"jhu": 100,
		"who": 300,
	}, DefaultScales())
	require.NotNil(t, c)

	assert.Greater(t, c.CV, 20.0)
	assert.True(t, c.Discrepancy)
	assert.Equal(t, "inconsistent", c.ConsistencyRating)
}

func TestCrossValidateSingleSource(t *testing.T) {
	assert.Nil(t, CrossValidate("X", map[string]float64{"jhu": 10}, DefaultScales()))
	assert.Nil(t, CrossValidate("X", nil, DefaultScales()))
}

func TestCrossValidateZeroMean(t *testing.T) {
	c := CrossValidate("Z", map[string]float64{"a": -5, "b": 5}, DefaultScales())
	require.NotNil(t, c)
	assert.True(t, math.IsInf(c.CV, 1))
	assert.Equal(t, "inconsistent", c.ConsistencyRating)

	all0 := CrossValidate("Z", map[string]float64{"a": 0, "b": 0}, DefaultScales())
	require.NotNil(t, all0)
	assert.Equal(t, 0.0, all0.CV)
	assert.Equal(t, "very_consistent", all0.ConsistencyRating)
}

func TestRateSources(t *testing.T) {
	comparisons := []*SourceComparison{
		CrossValidate("DE", map[string]float64{"jhu": 100, "ecdc": 100}, DefaultScales()),
		CrossValidate("FR", map[string]float64{"jhu": 100, "ecdc": 160}, DefaultScales()),
		nil,
	}

	rel := RateSources(comparisons, DefaultScales())
	require.Len(t, rel, 2)

	byName := make(map[string]SourceReliability, len(rel))
	for _, r := range rel {
		byName[r.Source] = r
	}

	// FR mean is 130: jhu deviates ~23%, ecdc deviates ~23%; DE adds 0% each.
	jhu := byName["jhu"]
	assert.Equal(t, 2, jhu.Entities)
	assert.InDelta(t, 11.54, jhu.MeanDeviationPct, 0.01)
	assert.Equal(t, "reliable", jhu.ReliabilityRating)

	assert.Equal(t, byName["ecdc"].MeanDeviationPct, jhu.MeanDeviationPct,
		"symmetric two-source deviations match")
}

func TestRateSourcesSkipsZeroMean(t *testing.T) {
	comparisons := []*SourceComparison{
		CrossValidate("Z", map[string]float64{"a": -5, "b": 5}, DefaultScales()),
	}
	assert.Empty(t, RateSources(comparisons, DefaultScales()))
}

func TestRatingScales(t *testing.T) {
	s := DefaultScales()

	assert.Equal(t, "excellent", s.CoverageRating(95))
	assert.Equal(t, "excellent", s.CoverageRating(90))
	assert.Equal(t, "good", s.CoverageRating(85))
	assert.Equal(t, "fair", s.CoverageRating(60))
	assert.Equal(t, "poor", s.CoverageRating(45))
	assert.Equal(t, "very_poor", s.CoverageRating(10))

	assert.Equal(t, "very_consistent", s.ConsistencyRating(5))
	assert.Equal(t, "consistent", s.ConsistencyRating(15))
	assert.Equal(t, "moderately_consistent", s.ConsistencyRating(30))
	assert.Equal(t, "inconsistent", s.ConsistencyRating(30.1))

	assert.Equal(t, "highly_reliable", s.ReliabilityRating(10))
	assert.Equal(t, "reliable", s.ReliabilityRating(25))
	assert.Equal(t, "moderately_reliable", s.ReliabilityRating(50))
	assert.Equal(t, "unreliable", s.ReliabilityRating(50.1))
}
