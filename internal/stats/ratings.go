// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package stats

// Scales holds the qualitative rating thresholds used by coverage,
// consistency, and reliability classification. The defaults reproduce the
// observed production behavior; operators can override them in config.
type Scales struct {
	// Coverage percentage thresholds (inclusive lower bounds).
	CoverageExcellent float64 `koanf:"coverage_excellent"`
	CoverageGood      float64 `koanf:"coverage_good"`
	CoverageFair      float64 `koanf:"coverage_fair"`
	CoveragePoor      float64 `koanf:"coverage_poor"`

	// Coefficient-of-variation thresholds (inclusive upper bounds).
	ConsistencyVery     float64 `koanf:"consistency_very"`
	ConsistencyNormal   float64 `koanf:"consistency_normal"`
	ConsistencyModerate float64 `koanf:"consistency_moderate"`

	// A CV above this flags a cross-source discrepancy.
	DiscrepancyCV float64 `koanf:"discrepancy_cv"`

	// Mean absolute percentage deviation thresholds (inclusive upper bounds).
	ReliabilityHigh     float64 `koanf:"reliability_high"`
	ReliabilityNormal   float64 `koanf:"reliability_normal"`
	ReliabilityModerate float64 `koanf:"reliability_moderate"`
}

// DefaultScales returns the production thresholds.
func DefaultScales() Scales {
	return Scales{
		CoverageExcellent:   90,
		CoverageGood:        80,
		CoverageFair:        60,
		CoveragePoor:        40,
		ConsistencyVery:     5,
		ConsistencyNormal:   15,
		ConsistencyModerate: 30,
		DiscrepancyCV:       20,
		ReliabilityHigh:     10,
		ReliabilityNormal:   25,
		ReliabilityModerate: 50,
	}
}

// CoverageRating classifies the fraction of requested entities a source
// actually returned, expressed as a percentage.
func (s Scales) CoverageRating(pct float64) string {
	switch {
	case pct >= s.CoverageExcellent:
		return "excellent"
	case pct >= s.CoverageGood:
		return "good"
	case pct >= s.CoverageFair:
		return "fair"
	case pct >= s.CoveragePoor:
		return "poor"
	default:
		return "very_poor"
	}
}

// ConsistencyRating classifies a coefficient of variation across sources.
func (s Scales) ConsistencyRating(cv float64) string {
	switch {
	case cv <= s.ConsistencyVery:
		return "very_consistent"
	case cv <= s.ConsistencyNormal:
		return "consistent"
	case cv <= s.ConsistencyModerate:
		return "moderately_consistent"
	default:
		return "inconsistent"
	}
}

// ReliabilityRating classifies a source's mean absolute percentage
// deviation from the cross-source mean.
func (s Scales) ReliabilityRating(deviation float64) string {
	switch {
	case deviation <= s.ReliabilityHigh:
		return "highly_reliable"
	case deviation <= s.ReliabilityNormal:
		return "reliable"
	case deviation <= s.ReliabilityModerate:
		return "moderately_reliable"
	default:
		return "unreliable"
	}
}
