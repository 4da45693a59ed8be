// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// StrongPairThreshold is the absolute coefficient above which a metric
// pair is reported as strongly related.
const StrongPairThreshold = 0.5

// MatrixCell is one entry of a correlation matrix. Correlation is nil
// when the pairwise computation was undefined.
type MatrixCell struct {
	Correlation *float64 `json:"correlation"`
	Strength    string   `json:"strength"`
}

// StrongPair is an off-diagonal matrix entry exceeding
// StrongPairThreshold in magnitude.
type StrongPair struct {
	Metric1        string  `json:"metric_1"`
	Metric2        string  `json:"metric_2"`
	Correlation    float64 `json:"correlation"`
	Strength       string  `json:"strength"`
	Interpretation string  `json:"interpretation"`
}

// MetricSummary describes one metric column of the matrix input.
type MetricSummary struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

// knownInterpretations annotates metric pairs whose relationship has an
// established epidemiological reading. Keys are ordered (metric1, metric2)
// with metric1 < metric2 lexicographically.
var knownInterpretations = map[[2]string]string{
	{"confirmed_cases", "deaths"}:           "case counts and deaths track each other with a lag",
	{"confirmed_cases", "population"}:       "larger populations accumulate more absolute cases",
	{"confirmed_cases", "restrictions"}:     "restriction counts follow case surges rather than precede them",
	{"deaths", "vaccination_rate"}:          "higher vaccination coverage is associated with lower mortality",
	{"deaths_per_100k", "vaccination_rate"}: "higher vaccination coverage is associated with lower population-adjusted mortality",
}

// Matrix computes the full pairwise Pearson correlation matrix over the
// named metric columns. Columns are aligned by row index; NaN marks a
// missing observation and the pairwise computation drops rows where either
// side is missing. Cells with fewer than MinCorrelationPairs surviving
// rows, and degenerate diagonals of constant columns, carry a nil
// coefficient.
//
// The second return lists off-diagonal pairs with |r| > StrongPairThreshold,
// each reported once and sorted by descending magnitude.
func Matrix(names []string, cols [][]float64) (map[string]map[string]MatrixCell, []StrongPair) {
	matrix := make(map[string]map[string]MatrixCell, len(names))
	var strong []StrongPair

	for i, ni := range names {
		row := make(map[string]MatrixCell, len(names))
		for j, nj := range names {
			cell := pairwise(cols[i], cols[j])
			row[nj] = cell

			if j > i && cell.Correlation != nil && math.Abs(*cell.Correlation) > StrongPairThreshold {
				strong = append(strong, StrongPair{
					Metric1:        ni,
					Metric2:        nj,
					Correlation:    *cell.Correlation,
					Strength:       cell.Strength,
					Interpretation: interpret(ni, nj, *cell.Correlation),
				})
			}
		}
		matrix[ni] = row
	}

	sort.SliceStable(strong, func(a, b int) bool {
		return math.Abs(strong[a].Correlation) > math.Abs(strong[b].Correlation)
	})
	return matrix, strong
}

// Summarize computes descriptive statistics for each metric column,
// ignoring NaN entries. Std is the population standard deviation and is
// nil for columns with a single valid value.
func Summarize(names []string, cols [][]float64) map[string]MetricSummary {
	out := make(map[string]MetricSummary, len(names))
	for i, name := range names {
		valid := make([]float64, 0, len(cols[i]))
		for _, v := range cols[i] {
			if isFinite(v) {
				valid = append(valid, v)
			}
		}

		s := MetricSummary{Count: len(valid)}
		if len(valid) > 0 {
			mean := stat.Mean(valid, nil)
			s.Mean = &mean
			min, max := valid[0], valid[0]
			for _, v := range valid[1:] {
				min = math.Min(min, v)
				max = math.Max(max, v)
			}
			s.Min = &min
			s.Max = &max
		}
		if len(valid) > 1 {
			std := stat.PopStdDev(valid, nil)
			s.Std = &std
		}
		out[name] = s
	}
	return out
}

func pairwise(a, b []float64) MatrixCell {
	ca := make([]float64, 0, len(a))
	cb := make([]float64, 0, len(b))
	for i := range a {
		if isFinite(a[i]) && isFinite(b[i]) {
			ca = append(ca, a[i])
			cb = append(cb, b[i])
		}
	}

	if len(ca) < MinCorrelationPairs {
		return MatrixCell{Strength: "undefined"}
	}
	r := stat.Correlation(ca, cb, nil)
	if !isFinite(r) {
		return MatrixCell{Strength: "undefined"}
	}
	return MatrixCell{Correlation: &r, Strength: CorrelationStrength(r)}
}

// interpret returns the canned reading for a known metric pair, or a
// generic strength-and-direction sentence when the pair has none.
func interpret(m1, m2 string, r float64) string {
	a, b := m1, m2
	if a > b {
		a, b = b, a
	}
	if known, ok := knownInterpretations[[2]string{a, b}]; ok {
		return known
	}

	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	return fmt.Sprintf("%s %s correlation between %s and %s", CorrelationStrength(r), direction, m1, m2)
}
