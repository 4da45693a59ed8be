// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// MinCorrelationPairs is the minimum number of valid (x, y) pairs for a
// defined correlation.
const MinCorrelationPairs = 3

// CorrelationResult holds a Pearson correlation with its least-squares
// slope and qualitative labels. Coefficient and Slope are nil when
// undefined, so undefined is never conflated with zero.
type CorrelationResult struct {
	N            int      `json:"n"`
	Coefficient  *float64 `json:"coefficient"`
	Slope        *float64 `json:"slope"`
	Strength     string   `json:"strength"`
	Relationship string   `json:"relationship"`
}

// Correlate computes the Pearson coefficient and OLS slope of y on x.
//
// Pairs with a non-finite value on either side are dropped first. Fewer
// than MinCorrelationPairs surviving pairs yields ErrInsufficientData. A
// numerically singular fit (zero-variance x) reports a nil slope rather
// than an error.
func Correlate(x, y []float64) (CorrelationResult, error) {
	if len(x) != len(y) {
		return CorrelationResult{}, fmt.Errorf("paired series length mismatch: %d vs %d", len(x), len(y))
	}

	cx := make([]float64, 0, len(x))
	cy := make([]float64, 0, len(y))
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			cx = append(cx, x[i])
			cy = append(cy, y[i])
		}
	}

	if len(cx) < MinCorrelationPairs {
		return CorrelationResult{N: len(cx)}, fmt.Errorf("%w: %d valid pairs, need %d", ErrInsufficientData, len(cx), MinCorrelationPairs)
	}

	res := CorrelationResult{N: len(cx), Strength: "undefined", Relationship: "no correlation"}

	if r := stat.Correlation(cx, cy, nil); isFinite(r) {
		res.Coefficient = &r
		res.Strength = CorrelationStrength(r)
		switch {
		case r > 0:
			res.Relationship = "positive"
		case r < 0:
			res.Relationship = "negative"
		}
	}

	if _, beta := stat.LinearRegression(cx, cy, nil, false); isFinite(beta) {
		res.Slope = &beta
	}

	return res, nil
}

// CorrelationStrength classifies the absolute value of a Pearson
// coefficient. Non-finite input is "undefined".
func CorrelationStrength(r float64) string {
	if !isFinite(r) {
		return "undefined"
	}
	abs := math.Abs(r)
	switch {
	case abs < 0.1:
		return "negligible"
	case abs < 0.3:
		return "weak"
	case abs < 0.5:
		return "moderate"
	case abs < 0.7:
		return "strong"
	default:
		return "very strong"
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
