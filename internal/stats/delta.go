// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package stats implements the analytical core of Covidlens: cumulative-to-
// daily delta extraction, Pearson correlation and least-squares regression,
// full correlation matrices, and cross-source consistency scoring.
//
// Missing observations are represented as nil pointers in series types and
// as NaN inside raw float slices; every exported computation drops or
// propagates them explicitly rather than treating them as zero.
package stats

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientData indicates fewer valid observations than the
// statistical minimum for the requested operation. Callers must surface
// it, never approximate around it.
var ErrInsufficientData = errors.New("insufficient data")

// OrderingError reports a cumulative series whose dates are not strictly
// increasing. Returned only when an ordering check is requested.
type OrderingError struct {
	Index int
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("cumulative series out of order at index %d", e.Index)
}

// CumulativePoint is one observation of a running counter.
type CumulativePoint struct {
	Date  time.Time
	Value *float64
}

// DeltaPoint is one derived daily increment. Delta is nil when either
// neighboring cumulative value was missing.
type DeltaPoint struct {
	Date  time.Time
	Delta *float64
}

// DeltaResult carries the derived series plus the number of negative
// day-over-day movements that were clamped to zero. Sources publish
// downward corrections; the clamp count makes them visible instead of
// silently discarding them.
type DeltaResult struct {
	Points      []DeltaPoint
	Corrections int
}

// Deltas converts a cumulative series into daily increments.
//
// The first element has no defined delta and is excluded. For every later
// element, delta = max(0, current - previous); a negative raw difference is
// clamped to zero and counted as a correction. A missing value on either
// side of a step yields a nil delta for that date.
//
// The caller is responsible for sorting by date. When strict is true the
// ordering is verified and an *OrderingError is returned on violation.
func Deltas(series []CumulativePoint, strict bool) (DeltaResult, error) {
	if strict {
		for i := 1; i < len(series); i++ {
			if !series[i].Date.After(series[i-1].Date) {
				return DeltaResult{}, &OrderingError{Index: i}
			}
		}
	}

	if len(series) < 2 {
		return DeltaResult{}, nil
	}

	res := DeltaResult{Points: make([]DeltaPoint, 0, len(series)-1)}
	for i := 1; i < len(series); i++ {
		point := DeltaPoint{Date: series[i].Date}
		prev, cur := series[i-1].Value, series[i].Value
		if prev != nil && cur != nil {
			d := *cur - *prev
			if d < 0 {
				d = 0
				res.Corrections++
			}
			point.Delta = &d
		}
		res.Points = append(res.Points, point)
	}
	return res, nil
}

// SumDeltas totals a delta series. Missing deltas are excluded from the
// sum; with nullAsZero they count as zero instead, which display-oriented
// callers request explicitly. The second return is the number of non-nil
// deltas that contributed.
func SumDeltas(points []DeltaPoint, nullAsZero bool) (float64, int) {
	var total float64
	var counted int
	for _, p := range points {
		if p.Delta == nil {
			if nullAsZero {
				counted++
			}
			continue
		}
		total += *p.Delta
		counted++
	}
	return total, counted
}
