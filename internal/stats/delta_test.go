// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func fp(f float64) *float64 { return &f }

func cumSeries(values ...*float64) []CumulativePoint {
	out := make([]CumulativePoint, len(values))
	for i, v := range values {
		out[i] = CumulativePoint{Date: day(i), Value: v}
	}
	return out
}

func TestDeltasBasic(t *testing.T) {
	res, err := Deltas(cumSeries(fp(100), fp(110), fp(125), fp(125)), false)
	require.NoError(t, err)
	require.Len(t, res.Points, 3)

	assert.Equal(t, 10.0, *res.Points[0].Delta)
	assert.Equal(t, 15.0, *res.Points[1].Delta)
	assert.Equal(t, 0.0, *res.Points[2].Delta)
	assert.Equal(t, 0, res.Corrections)
	assert.Equal(t, day(1), res.Points[0].Date)
}

func TestDeltasClampsCorrections(t *testing.T) {
	res, err := Deltas(cumSeries(fp(100), fp(90), fp(95)), false)
	require.NoError(t, err)
	require.Len(t, res.Points, 2)

	assert.Equal(t, 0.0, *res.Points[0].Delta)
	assert.Equal(t, 5.0, *res.Points[1].Delta)
	assert.Equal(t, 1, res.Corrections)
}

func TestDeltasNullPropagation(t *testing.T) {
	res, err := Deltas(cumSeries(fp(100), nil, fp(130)), false)
	require.NoError(t, err)
	require.Len(t, res.Points, 2)

	assert.Nil(t, res.Points[0].Delta, "missing current value")
	assert.Nil(t, res.Points[1].Delta, "missing previous value")
}

func TestDeltasShortSeries(t *testing.T) {
	res, err := Deltas(cumSeries(fp(100)), false)
	require.NoError(t, err)
	assert.Empty(t, res.Points)

	res, err = Deltas(nil, false)
	require.NoError(t, err)
	assert.Empty(t, res.Points)
}

func TestDeltasStrictOrdering(t *testing.T) {
	series := []CumulativePoint{
		{Date: day(0), Value: fp(1)},
		{Date: day(2), Value: fp(2)},
		{Date: day(1), Value: fp(3)},
	}

	_, err := Deltas(series, true)
	var oerr *OrderingError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, 2, oerr.Index)

	// Equal dates also violate strict ordering.
	series[2].Date = day(2)
	_, err = Deltas(series, true)
	assert.ErrorAs(t, err, &oerr)
}

func TestSumDeltas(t *testing.T) {
	points := []DeltaPoint{
		{Date: day(1), Delta: fp(10)},
		{Date: day(2), Delta: nil},
		{Date: day(3), Delta: fp(5)},
	}

	total, counted := SumDeltas(points, false)
	assert.Equal(t, 15.0, total)
	assert.Equal(t, 2, counted)

	total, counted = SumDeltas(points, true)
	assert.Equal(t, 15.0, total)
	assert.Equal(t, 3, counted)
}
