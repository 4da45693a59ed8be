// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SourceComparison scores how closely independent sources agree on the
// same metric for one entity.
type SourceComparison struct {
	Entity            string             `json:"entity"`
	Sources           []string           `json:"sources"`
	Values            map[string]float64 `json:"values"`
	Mean              float64            `json:"mean"`
	StdDev            float64            `json:"std_dev"`
	CV                float64            `json:"coefficient_of_variation"`
	ConsistencyRating string             `json:"consistency_rating"`
	Discrepancy       bool               `json:"discrepancy"`
}

// SourceReliability aggregates one source's deviation from the
// cross-source consensus over every entity it reported.
type SourceReliability struct {
	Source            string  `json:"source"`
	Entities          int     `json:"entities"`
	MeanDeviationPct  float64 `json:"mean_deviation_pct"`
	ReliabilityRating string  `json:"reliability_rating"`
}

// CrossValidate scores source agreement for one entity. Values maps source
// name to that source's reported figure. Fewer than two reporting sources
// gives nothing to compare and returns nil.
//
// The coefficient of variation uses the population standard deviation and
// is expressed as a percentage of the mean. A zero mean with nonzero
// spread is reported as fully inconsistent rather than dividing by zero.
func CrossValidate(entity string, values map[string]float64, scales Scales) *SourceComparison {
	if len(values) < 2 {
		return nil
	}

	sources := make([]string, 0, len(values))
	for s := range values {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	data := make([]float64, len(sources))
	for i, s := range sources {
		data[i] = values[s]
	}

	mean := stat.Mean(data, nil)
	std := stat.PopStdDev(data, nil)

	var cv float64
	switch {
	case mean != 0:
		cv = math.Abs(std/mean) * 100
	case std != 0:
		cv = math.Inf(1)
	}

	return &SourceComparison{
		Entity:            entity,
		Sources:           sources,
		Values:            values,
		Mean:              mean,
		StdDev:            std,
		CV:                cv,
		ConsistencyRating: scales.ConsistencyRating(cv),
		Discrepancy:       cv > scales.DiscrepancyCV,
	}
}

// RateSources derives a per-source reliability score from a set of
// cross-validated comparisons. For each comparison a source took part in,
// its absolute percentage deviation from the comparison mean contributes
// to the source's average. Comparisons with a zero mean are skipped since
// percentage deviation is undefined there.
func RateSources(comparisons []*SourceComparison, scales Scales) []SourceReliability {
	type acc struct {
		sum float64
		n   int
	}
	bySource := make(map[string]*acc)

	for _, c := range comparisons {
		if c == nil || c.Mean == 0 {
			continue
		}
		for src, v := range c.Values {
			a := bySource[src]
			if a == nil {
				a = &acc{}
				bySource[src] = a
			}
			a.sum += math.Abs((v-c.Mean)/c.Mean) * 100
			a.n++
		}
	}

	names := make([]string, 0, len(bySource))
	for s := range bySource {
		names = append(names, s)
	}
	sort.Strings(names)

	out := make([]SourceReliability, 0, len(names))
	for _, s := range names {
		a := bySource[s]
		dev := a.sum / float64(a.n)
		out = append(out, SourceReliability{
			Source:            s,
			Entities:          a.n,
			MeanDeviationPct:  dev,
			ReliabilityRating: scales.ReliabilityRating(dev),
		})
	}
	return out
}
