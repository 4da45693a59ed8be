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

func TestMatrixSymmetricWithUnitDiagonal(t *testing.T) {
	names := []string{"cases", "deaths", "noise"}
	cols := [][]float64{
		{1, 2, 3, 4, 5},
		{2, 4, 6, 8, 10},
		{5, 1, 4, 2, 3},
	}

	matrix, _ := Matrix(names, cols)
	require.Len(t, matrix, 3)

	for _, n := range names {
		require.NotNil(t, matrix[n][n].Correlation)
		assert.InDelta(t, 1.0, *matrix[n][n].Correlation, 1e-12)
	}

	cd := matrix["cases"]["deaths"]
	dc := matrix["deaths"]["cases"]
	require.NotNil(t, cd.Correlation)
	require.NotNil(t, dc.Correlation)
	assert.InDelta(t, *cd.Correlation, *dc.Correlation, 1e-12)
	assert.InDelta(t, 1.0, *cd.Correlation, 1e-12)
}

func TestMatrixStrongPairsDedupedAndSorted(t *testing.T) {
	names := []string{"a", "b", "c"}
	cols := [][]float64{
		{1, 2, 3, 4, 5},
		{2, 4, 6, 8, 10},   // r(a,b) = 1
		{10, 8, 7, 4, 1.5}, // strongly negative vs a and b
	}

	_, strong := Matrix(names, cols)
	require.NotEmpty(t, strong)

	seen := make(map[[2]string]bool)
	for _, p := range strong {
		key := [2]string{p.Metric1, p.Metric2}
		assert.False(t, seen[key], "pair %v reported twice", key)
		seen[key] = true
		assert.Greater(t, math.Abs(p.Correlation), StrongPairThreshold)
	}

	for i := 1; i < len(strong); i++ {
		assert.GreaterOrEqual(t,
			math.Abs(strong[i-1].Correlation),
			math.Abs(strong[i].Correlation),
			"pairs must be sorted by descending magnitude")
	}
}

func TestMatrixConstantColumnUndefined(t *testing.T) {
	names := []string{"flat", "cases"}
	cols := [][]float64{
		{7, 7, 7, 7},
		{1, 2, 3, 4},
	}

	matrix, strong := Matrix(names, cols)
	assert.Nil(t, matrix["flat"]["flat"].Correlation)
	assert.Nil(t, matrix["flat"]["cases"].Correlation)
	assert.Equal(t, "undefined", matrix["flat"]["cases"].Strength)
	assert.Empty(t, strong)
}

func TestMatrixPairwiseDeletion(t *testing.T) {
	names := []string{"x", "y"}
	cols := [][]float64{
		{1, math.NaN(), 3, 4, 5},
		{2, 4, math.NaN(), 8, 10},
	}

	matrix, _ := Matrix(names, cols)
	require.NotNil(t, matrix["x"]["y"].Correlation)
	assert.InDelta(t, 1.0, *matrix["x"]["y"].Correlation, 1e-12)
}

func TestMatrixTooFewRows(t *testing.T) {
	matrix, strong := Matrix([]string{"x", "y"}, [][]float64{{1, 2}, {3, 4}})
	assert.Nil(t, matrix["x"]["y"].Correlation)
	assert.Empty(t, strong)
}

func TestMatrixInterpretationLookup(t *testing.T) {
	// Known pairs carry their canned reading regardless of argument order.
	assert.Contains(t, interpret("deaths", "vaccination_rate", -0.8), "vaccination coverage")
	assert.Equal(t,
		interpret("deaths", "vaccination_rate", -0.8),
		interpret("vaccination_rate", "deaths", -0.8))

	// Unknown pairs fall back to a strength and direction sentence.
	assert.Equal(t, "very strong positive correlation between metric_a and metric_b",
		interpret("metric_a", "metric_b", 0.95))
	assert.Equal(t, "strong negative correlation between deaths and unheard_of_metric",
		interpret("deaths", "unheard_of_metric", -0.6))
}

func TestMatrixStrongPairFallbackInterpretation(t *testing.T) {
	names := []string{"metric_a", "metric_b"}
	cols := [][]float64{
		{1, 2, 3, 4, 5},
		{3, 5, 7, 9, 11}, // exactly 2x+1
	}

	_, strong := Matrix(names, cols)
	require.Len(t, strong, 1)
	assert.Equal(t, "very strong positive correlation between metric_a and metric_b",
		strong[0].Interpretation)
}

func TestSummarize(t *testing.T) {
	names := []string{"cases", "sparse"}
	cols := [][]float64{
		{2, 4, 6},
		{math.NaN(), 10, math.NaN()},
	}

	s := Summarize(names, cols)

	cases := s["cases"]
	assert.Equal(t, 3, cases.Count)
	require.NotNil(t, cases.Mean)
	assert.InDelta(t, 4.0, *cases.Mean, 1e-12)
	require.NotNil(t, cases.Std)
	assert.InDelta(t, 1.632993, *cases.Std, 1e-5)
	assert.Equal(t, 2.0, *cases.Min)
	assert.Equal(t, 6.0, *cases.Max)

	sparse := s["sparse"]
	assert.Equal(t, 1, sparse.Count)
	require.NotNil(t, sparse.Mean)
	assert.Equal(t, 10.0, *sparse.Mean)
	assert.Nil(t, sparse.Std, "std undefined for a single observation")
}
