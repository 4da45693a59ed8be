// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package sanitize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyNullsNonFinite(t *testing.T) {
	in := map[string]any{
		"inf":  math.Inf(1),
		"ninf": math.Inf(-1),
		"nan":  math.NaN(),
		"ok":   1.5,
	}

	out, ok := Any(in).(map[string]any)
	require.True(t, ok)
	assert.Nil(t, out["inf"])
	assert.Nil(t, out["ninf"])
	assert.Nil(t, out["nan"])
	assert.Equal(t, 1.5, out["ok"])
}

func TestAnyCoercesWholeFloats(t *testing.T) {
	out := Any(map[string]any{"count": 42.0, "rate": 42.5})
	m := out.(map[string]any)
	assert.Equal(t, int64(42), m["count"])
	assert.Equal(t, 42.5, m["rate"])
}

func TestAnyFormatsTimestamps(t *testing.T) {
	ts := time.Date(2021, 3, 11, 12, 0, 0, 0, time.UTC)
	out := Any(map[string]any{"published": ts, "missing": time.Time{}})
	m := out.(map[string]any)
	assert.Equal(t, "2021-03-11T12:00:00Z", m["published"])
	assert.Nil(t, m["missing"])
}

func TestAnyRecursesNestedStructures(t *testing.T) {
	in := map[string]any{
		"rows": []any{
			map[string]any{"cases": math.NaN()},
			map[string]any{"cases": 10.0},
		},
	}

	out := Any(in).(map[string]any)
	rows := out["rows"].([]any)
	assert.Nil(t, rows[0].(map[string]any)["cases"])
	assert.Equal(t, int64(10), rows[1].(map[string]any)["cases"])
}

func TestAnyIdempotent(t *testing.T) {
	in := map[string]any{
		"a": math.Inf(1),
		"b": 3.0,
		"c": []any{math.NaN(), "x", 2.25},
		"d": time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	once := Any(in)
	twice := Any(once)
	assert.Equal(t, once, twice)
}

func TestFloatHelpers(t *testing.T) {
	assert.Nil(t, Float(math.NaN()))
	assert.Nil(t, Float(math.Inf(-1)))
	require.NotNil(t, Float(2.5))
	assert.Equal(t, 2.5, *Float(2.5))

	assert.Nil(t, FloatPtr(nil))
	assert.Nil(t, Int(math.Inf(1)))
	require.NotNil(t, Int(99.7))
	assert.Equal(t, int64(99), *Int(99.7))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 8.16, Round(8.16496580927726, 2))
	assert.Equal(t, 100.0, Round(99.999, 2)) // rounds up across the integer boundary
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
}

func TestDate(t *testing.T) {
	assert.Nil(t, Date(time.Time{}))
	d := Date(time.Date(2021, 12, 1, 9, 30, 0, 0, time.UTC))
	require.NotNil(t, d)
	assert.Equal(t, "2021-12-01", *d)
}
