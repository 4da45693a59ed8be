// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package sanitize normalizes values read from heterogeneous sources into
// JSON-safe, statistically usable form. Non-finite numbers become nulls,
// whole-valued dynamic floats collapse to integers, and timestamps are
// rendered as ISO-8601 strings. Every analytics payload passes through
// Any before encoding; the operation is total and idempotent.
package sanitize

import (
	"database/sql"
	"math"
	"time"
)

// DateFormat is the canonical date rendering for all responses.
const DateFormat = "2006-01-02"

// Any recursively sanitizes a dynamically-typed value. The type switch is
// exhaustive over the representations our sources produce; anything not
// listed passes through unchanged.
func Any(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = Any(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Any(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Any(val)
		}
		return out
	case float64:
		return cleanFloat(x)
	case float32:
		return cleanFloat(float64(x))
	case *float64:
		if x == nil {
			return nil
		}
		return cleanFloat(*x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return x
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.Format(time.RFC3339)
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil
		}
		return x.Format(time.RFC3339)
	case sql.NullFloat64:
		if !x.Valid {
			return nil
		}
		return cleanFloat(x.Float64)
	case sql.NullInt64:
		if !x.Valid {
			return nil
		}
		return x.Int64
	case sql.NullString:
		if !x.Valid {
			return nil
		}
		return x.String
	case sql.NullTime:
		if !x.Valid || x.Time.IsZero() {
			return nil
		}
		return x.Time.Format(time.RFC3339)
	default:
		return v
	}
}

// cleanFloat maps non-finite values to nil and collapses whole-valued
// dynamic floats to int64. Typed struct fields keep their float identity;
// this applies only to values flowing through the dynamic path.
func cleanFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// Float returns a pointer to f, or nil when f is NaN or infinite.
// Use for nullable float fields in typed result structs.
func Float(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// FloatPtr sanitizes an already-nullable float.
func FloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}

// Int floors a finite float into a nullable integer. Non-finite input
// yields nil rather than a garbage conversion.
func Int(f float64) *int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int64(f)
	return &n
}

// IntPtr sanitizes a nullable float into a nullable integer.
func IntPtr(p *float64) *int64 {
	if p == nil {
		return nil
	}
	return Int(*p)
}

// Date renders a timestamp as a calendar date string, or nil for the zero time.
func Date(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(DateFormat)
	return &s
}

// Round rounds to the given number of decimal places, passing non-finite
// values through so Float can null them afterwards.
func Round(f float64, places int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	shift := math.Pow(10, float64(places))
	return math.Round(f*shift) / shift
}
