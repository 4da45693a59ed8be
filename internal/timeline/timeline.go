// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package timeline condenses a country's daily history into narrative
// milestones and monthly aggregates for the pandemic timeline view.
package timeline

import (
	"sort"
	"time"

	"github.com/covidlens/covidlens/internal/sanitize"
	"github.com/covidlens/covidlens/internal/stats"
)

// Point is one day of cumulative history for a single country. Any field
// may be missing when the source had no report for that day.
type Point struct {
	Date         time.Time
	Cases        *float64
	Deaths       *float64
	Vaccinations *float64
}

// Moment is a dated milestone. Date is nil when the milestone never
// occurred in the observed window; the milestone key itself is always
// present in the response so clients can distinguish "not yet" from
// "not computed".
type Moment struct {
	Date  *string  `json:"date"`
	Value *float64 `json:"value,omitempty"`
}

// KeyMoments is the fixed set of milestones extracted per country.
type KeyMoments struct {
	FirstCase        Moment `json:"first_case_reported"`
	FirstDeath       Moment `json:"first_death_reported"`
	VaccinationStart Moment `json:"vaccination_start"`
	PeakDailyCases   Moment `json:"peak_daily_cases"`
	PeakDailyDeaths  Moment `json:"peak_daily_deaths"`
}

// MonthBucket is the monthly roll-up of cumulative history. Cumulative
// metrics aggregate by maximum within the month.
type MonthBucket struct {
	Month        string   `json:"month"`
	Cases        *float64 `json:"cases"`
	Deaths       *float64 `json:"deaths"`
	Vaccinations *float64 `json:"vaccinations"`
}

// ExtractKeyMoments derives milestones from a date-sorted daily history.
//
// First-occurrence milestones fire on the first day the cumulative count
// is positive. Peaks are taken over the derived daily increments; ties
// resolve to the earliest date. An empty or all-missing history yields
// null milestones, never an error.
func ExtractKeyMoments(points []Point) KeyMoments {
	var km KeyMoments

	km.FirstCase = firstPositive(points, func(p Point) *float64 { return p.Cases })
	km.FirstDeath = firstPositive(points, func(p Point) *float64 { return p.Deaths })
	km.VaccinationStart = firstPositive(points, func(p Point) *float64 { return p.Vaccinations })

	km.PeakDailyCases = peakDaily(points, func(p Point) *float64 { return p.Cases })
	km.PeakDailyDeaths = peakDaily(points, func(p Point) *float64 { return p.Deaths })

	return km
}

// Monthly rolls the daily history up into calendar months, sorted
// ascending. Cumulative values aggregate by maximum, so a month's bucket
// reflects the latest totals reported within it.
func Monthly(points []Point) []MonthBucket {
	buckets := make(map[string]*MonthBucket)
	for _, p := range points {
		key := p.Date.Format("2006-01")
		b := buckets[key]
		if b == nil {
			b = &MonthBucket{Month: key}
			buckets[key] = b
		}
		b.Cases = maxPtr(b.Cases, p.Cases)
		b.Deaths = maxPtr(b.Deaths, p.Deaths)
		b.Vaccinations = maxPtr(b.Vaccinations, p.Vaccinations)
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthBucket, 0, len(months))
	for _, m := range months {
		out = append(out, *buckets[m])
	}
	return out
}

func firstPositive(points []Point, field func(Point) *float64) Moment {
	for _, p := range points {
		if v := field(p); v != nil && *v > 0 {
			return Moment{Date: sanitize.Date(p.Date)}
		}
	}
	return Moment{}
}

func peakDaily(points []Point, field func(Point) *float64) Moment {
	series := make([]stats.CumulativePoint, len(points))
	for i, p := range points {
		series[i] = stats.CumulativePoint{Date: p.Date, Value: field(p)}
	}

	res, _ := stats.Deltas(series, false)

	var best Moment
	var bestVal float64
	for _, d := range res.Points {
		if d.Delta == nil {
			continue
		}
		// strict comparison keeps the earliest date on ties
		if best.Date == nil || *d.Delta > bestVal {
			bestVal = *d.Delta
			best = Moment{Date: sanitize.Date(d.Date), Value: d.Delta}
		}
	}
	return best
}

func maxPtr(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b > *a:
		return b
	default:
		return a
	}
}
