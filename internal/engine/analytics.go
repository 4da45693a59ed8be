// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/covidlens/covidlens/internal/forecast"
	"github.com/covidlens/covidlens/internal/frame"
	"github.com/covidlens/covidlens/internal/metrics"
	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/sanitize"
	"github.com/covidlens/covidlens/internal/source"
	"github.com/covidlens/covidlens/internal/stats"
	"github.com/covidlens/covidlens/internal/timeline"
)

// MortalityVsGDP correlates a year of COVID deaths with GDP per capita
// from the metastore. Countries without metadata are excluded from the
// pairing.
func (e *Engine) MortalityVsGDP(ctx context.Context, year int, countries []string) (models.MortalityGDPReport, bool, error) {
	type params struct {
		Year      int      `json:"year"`
		Countries []string `json:"countries"`
	}
	return memoize(e, "mortality_gdp", params{year, countries}, func() (models.MortalityGDPReport, error) {
		from, to := yearRange(year)
		series, err := e.src.CumulativeSeriesByCountry(ctx, source.CaseTypeDeaths, countries, from, to)
		if err != nil {
			return models.MortalityGDPReport{}, err
		}

		docs, err := e.meta.ListCountries(ctx)
		if err != nil {
			return models.MortalityGDPReport{}, err
		}
		metaByKey := make(map[string]models.CountryMetadata, len(docs))
		for _, d := range docs {
			metaByKey[frame.Key(d.Country)] = d
		}

		var points []models.MortalityGDPPoint
		var gdp, deaths []float64
		for country, cum := range series {
			meta, ok := metaByKey[frame.Key(country)]
			if !ok || meta.GDPPerCapita == nil {
				continue
			}
			deltas, err := stats.Deltas(cum, false)
			if err != nil {
				continue
			}
			total, _ := stats.SumDeltas(deltas.Points, false)

			p := models.MortalityGDPPoint{
				Country:      country,
				Deaths:       int64(math.Round(total)),
				GDPPerCapita: *meta.GDPPerCapita,
				Population:   meta.Population,
			}
			if meta.Population != nil && *meta.Population > 0 {
				p.DeathsPer100k = sanitize.Float(sanitize.Round(total/float64(*meta.Population)*100000, 2))
			}
			points = append(points, p)
			gdp = append(gdp, *meta.GDPPerCapita)
			deaths = append(deaths, total)
		}

		corr, err := stats.Correlate(gdp, deaths)
		if err != nil {
			return models.MortalityGDPReport{}, fmt.Errorf("mortality vs GDP for %d: %w", year, err)
		}

		sort.Slice(points, func(i, j int) bool { return points[i].Deaths > points[j].Deaths })

		report := models.MortalityGDPReport{
			Year:         year,
			N:            corr.N,
			Correlation:  corr.Coefficient,
			Strength:     corr.Strength,
			Relationship: corr.Relationship,
			Sample:       points,
		}
		if corr.Slope != nil {
			report.Slope = sanitize.Float(sanitize.Round(*corr.Slope*1000, 4))
		}
		return report, nil
	})
}

// PredictInfections forecasts daily new infections for one country with
// the ARIMA model fit on the derived JHU daily series.
func (e *Engine) PredictInfections(ctx context.Context, country string, horizon int) (models.ForecastReport, bool, error) {
	type params struct {
		Country string `json:"country"`
		Horizon int    `json:"horizon"`
	}
	if horizon <= 0 {
		horizon = e.cfg.DefaultForecastDays
	}
	if horizon > e.cfg.MaxForecastDays {
		horizon = e.cfg.MaxForecastDays
	}
	return memoize(e, "predict_infections", params{country, horizon}, func() (models.ForecastReport, error) {
		series, err := e.src.CumulativeSeries(ctx, country, source.CaseTypeConfirmed, nil, nil)
		if err != nil {
			return models.ForecastReport{}, err
		}
		deltas, err := stats.Deltas(series, false)
		if err != nil {
			return models.ForecastReport{}, err
		}

		dates := make([]time.Time, 0, len(deltas.Points))
		values := make([]float64, 0, len(deltas.Points))
		for _, p := range deltas.Points {
			if p.Delta != nil {
				dates = append(dates, p.Date)
				values = append(values, *p.Delta)
			}
		}

		start := time.Now()
		result, err := forecast.Predict(dates, values, horizon)
		if err != nil {
			metrics.RecordForecastFit(time.Since(start), "error")
			return models.ForecastReport{}, fmt.Errorf("predict infections for %s: %w", country, err)
		}
		metrics.RecordForecastFit(time.Since(start), "ok")

		return models.ForecastReport{Country: country, Result: result}, nil
	})
}

// VaccinationVsMortality correlates vaccination coverage with
// population-adjusted mortality across countries, pairing OWID coverage
// with ECDC deaths.
func (e *Engine) VaccinationVsMortality(ctx context.Context, countries []string, from, to *string) (models.VaccinationMortalityReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
	}
	return memoize(e, "vaccination_mortality", params{countries, from, to}, func() (models.VaccinationMortalityReport, error) {
		vax, err := e.src.LatestVaccinations(ctx, countries, from, to, 0)
		if err != nil {
			return models.VaccinationMortalityReport{}, err
		}
		ecdc, err := e.src.ECDCAggregates(ctx, countries, from, to)
		if err != nil {
			return models.VaccinationMortalityReport{}, err
		}

		vaxFrame := frame.NewSourceFrame(source.SourceOWID)
		for _, v := range vax {
			vaxFrame.Add(v.Country, map[string]*float64{"fully": v.FullyPerHundred})
		}
		mortFrame := frame.NewSourceFrame(source.SourceECDC)
		for _, a := range ecdc {
			var per100k *float64
			if a.TotalDeaths != nil && a.Population != nil && *a.Population > 0 {
				per100k = sanitize.Float(float64(*a.TotalDeaths) / float64(*a.Population) * 100000)
			}
			mortFrame.Add(a.Country, map[string]*float64{"deaths_per_100k": per100k})
		}

		joined := frame.Join([]*frame.SourceFrame{vaxFrame, mortFrame}, frame.JoinInner)

		var points []models.VaccinationMortalityPoint
		var x, y []float64
		for _, name := range joined.Entities {
			row := joined.Rows[frame.Key(name)]
			fully := row.Sources[source.SourceOWID]["fully"]
			mort := row.Sources[source.SourceECDC]["deaths_per_100k"]
			if fully == nil || mort == nil {
				continue
			}
			points = append(points, models.VaccinationMortalityPoint{
				Country:                   name,
				FullyVaccinatedPerHundred: *fully,
				DeathsPer100k:             sanitize.Round(*mort, 2),
			})
			x = append(x, *fully)
			y = append(y, *mort)
		}

		corr, err := stats.Correlate(x, y)
		if err != nil {
			return models.VaccinationMortalityReport{}, fmt.Errorf("vaccination vs mortality: %w", err)
		}

		sort.Slice(points, func(i, j int) bool {
			return points[i].FullyVaccinatedPerHundred > points[j].FullyVaccinatedPerHundred
		})

		report := models.VaccinationMortalityReport{
			N:            corr.N,
			Correlation:  corr.Coefficient,
			Strength:     corr.Strength,
			Relationship: corr.Relationship,
			Points:       points,
		}
		if corr.Slope != nil {
			report.Slope = sanitize.Float(sanitize.Round(*corr.Slope, 4))
		}
		switch {
		case corr.Coefficient == nil:
			report.Interpretation = "association undefined for this sample"
		case *corr.Coefficient < -0.1:
			report.Interpretation = "countries with higher vaccination coverage report lower population-adjusted mortality in this sample"
		case *corr.Coefficient > 0.1:
			report.Interpretation = "countries with higher vaccination coverage report higher population-adjusted mortality in this sample; confounding by age structure and reporting quality is likely"
		default:
			report.Interpretation = "no clear association between vaccination coverage and mortality in this sample"
		}
		return report, nil
	})
}

// TravelRestrictionsImpact relates restriction activity to WHO-reported
// case load. When one side has no data the other side is still
// reported, flagged as partial.
func (e *Engine) TravelRestrictionsImpact(ctx context.Context, countries []string, from, to *string) (models.RestrictionsImpactReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
	}
	return memoize(e, "restrictions_impact", params{countries, from, to}, func() (models.RestrictionsImpactReport, error) {
		counts, err := e.src.RestrictionCounts(ctx, countries, from, to, 0)
		if err != nil {
			return models.RestrictionsImpactReport{}, err
		}
		avgs, err := e.src.AvgDailyCases(ctx, countries, from, to)
		if err != nil {
			return models.RestrictionsImpactReport{}, err
		}

		report := models.RestrictionsImpactReport{
			TopRestricted: headCounts(counts, 5),
		}

		if len(counts) == 0 || len(avgs) == 0 {
			report.Partial = true
			switch {
			case len(counts) == 0 && len(avgs) == 0:
				report.Note = "neither restriction nor WHO case data available for the requested window"
			case len(counts) == 0:
				report.Note = "no restriction data in the requested window; case figures reported alone"
			default:
				report.Note = "no WHO case data in the requested window; restriction counts reported alone"
			}
			for i, a := range avgs {
				if i == 5 {
					break
				}
				report.TopByCases = append(report.TopByCases, models.RestrictionsImpactPoint{
					Country:       a.Country,
					AvgDailyCases: sanitize.Float(sanitize.Round(a.Value, 2)),
				})
			}
			return report, nil
		}

		countByKey := make(map[string]models.NameCount, len(counts))
		for _, c := range counts {
			countByKey[frame.Key(c.Name)] = c
		}

		var points []models.RestrictionsImpactPoint
		var x, y []float64
		for _, a := range avgs {
			point := models.RestrictionsImpactPoint{
				Country:       a.Country,
				AvgDailyCases: sanitize.Float(sanitize.Round(a.Value, 2)),
			}
			if c, ok := countByKey[frame.Key(a.Country)]; ok {
				point.Restrictions = c.Count
				x = append(x, float64(c.Count))
				y = append(y, a.Value)
			}
			points = append(points, point)
		}

		corr, err := stats.Correlate(x, y)
		if err != nil {
			return models.RestrictionsImpactReport{}, fmt.Errorf("restrictions impact: %w", err)
		}
		report.N = corr.N
		report.Correlation = corr.Coefficient
		report.Strength = corr.Strength
		if len(points) > 5 {
			points = points[:5]
		}
		report.TopByCases = points
		return report, nil
	})
}

func headCounts(counts []models.NameCount, n int) []models.NameCount {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

// MultiSourceComparison places every source's headline figures for the
// requested countries side by side.
func (e *Engine) MultiSourceComparison(ctx context.Context, countries []string, from, to *string) (models.MultiSourceComparisonReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
	}
	return memoize(e, "multi_source_comparison", params{countries, from, to}, func() (models.MultiSourceComparisonReport, error) {
		frames := e.figureFrames(ctx, countries, from, to)
		if len(frames) == 0 {
			return models.MultiSourceComparisonReport{}, fmt.Errorf("%w: no source reported the requested countries", stats.ErrInsufficientData)
		}

		joined := frame.Join(frames, frame.JoinLeft)

		report := models.MultiSourceComparisonReport{
			Availability: joined.Coverage,
		}
		for _, requested := range countries {
			row, ok := joined.Rows[frame.Key(requested)]
			comparison := models.CountryComparison{
				Country: requested,
				Sources: make(map[string]models.SourceFigures),
			}
			if ok {
				comparison.Country = row.Name
				for src, m := range row.Sources {
					comparison.Sources[src] = models.SourceFigures{
						Cases:  sanitize.FloatPtr(m["cases"]),
						Deaths: sanitize.FloatPtr(m["deaths"]),
					}
					comparison.SourcesReporting++
				}
			}
			report.Comparisons = append(report.Comparisons, comparison)
		}
		return report, nil
	})
}

// figureFrames queries each headline-figure source independently and
// folds failures away; the caller sees only the frames that answered.
func (e *Engine) figureFrames(ctx context.Context, countries []string, from, to *string) []*frame.SourceFrame {
	var frames []*frame.SourceFrame

	if totals, err := e.src.TotalsByCountry(ctx, countries, from, to); err == nil {
		f := frame.NewSourceFrame(source.SourceJHU)
		for _, t := range totals {
			f.Add(t.Country, map[string]*float64{"cases": t.Cases, "deaths": t.Deaths})
		}
		frames = append(frames, f)
	}
	if aggs, err := e.src.ECDCAggregates(ctx, countries, from, to); err == nil {
		f := frame.NewSourceFrame(source.SourceECDC)
		for _, a := range aggs {
			f.Add(a.Country, map[string]*float64{
				"cases":  intAsFloatPtr(a.TotalCases),
				"deaths": intAsFloatPtr(a.TotalDeaths),
			})
		}
		frames = append(frames, f)
	}
	if aggs, err := e.src.WHOAggregates(ctx, countries, from, to, 0); err == nil {
		f := frame.NewSourceFrame(source.SourceWHO)
		for _, a := range aggs {
			f.Add(a.Country, map[string]*float64{
				"cases":  intAsFloatPtr(a.TotalCases),
				"deaths": intAsFloatPtr(a.TotalDeaths),
			})
		}
		frames = append(frames, f)
	}
	return frames
}

func intAsFloatPtr(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// PandemicTimeline condenses each country's history into monthly
// buckets and key moments, optionally with the canned global milestone
// chronology.
func (e *Engine) PandemicTimeline(ctx context.Context, countries []string, from, to *string, includeMilestones bool) (models.PandemicTimelineReport, bool, error) {
	type params struct {
		Countries  []string `json:"countries"`
		From       *string  `json:"from"`
		To         *string  `json:"to"`
		Milestones bool     `json:"milestones"`
	}
	return memoize(e, "pandemic_timeline", params{countries, from, to, includeMilestones}, func() (models.PandemicTimelineReport, error) {
		report := models.PandemicTimelineReport{}
		for _, country := range countries {
			tc, err := e.countryTimeline(ctx, country, from, to)
			if err != nil {
				return models.PandemicTimelineReport{}, err
			}
			if tc != nil {
				report.Countries = append(report.Countries, *tc)
			}
		}
		if len(report.Countries) == 0 {
			return models.PandemicTimelineReport{}, fmt.Errorf("%w: no history for the requested countries", stats.ErrInsufficientData)
		}
		if includeMilestones {
			report.Milestones = globalMilestones()
		}
		return report, nil
	})
}

// countryTimeline left-joins ECDC daily history with OWID vaccinations
// by date. Returns nil when the country has no rows at all.
func (e *Engine) countryTimeline(ctx context.Context, country string, from, to *string) (*models.TimelineCountry, error) {
	days, err := e.src.DailySeries(ctx, country, from, to)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}
	vax, err := e.src.VaccinationSeries(ctx, country, from, to)
	if err != nil {
		return nil, err
	}

	vaxByDate := make(map[string]*float64, len(vax))
	for _, v := range vax {
		vaxByDate[v.Date.Format(sanitize.DateFormat)] = v.TotalVaccinations
	}

	points := make([]timeline.Point, 0, len(days))
	for _, d := range days {
		points = append(points, timeline.Point{
			Date:         d.Date,
			Cases:        d.Cases,
			Deaths:       d.Deaths,
			Vaccinations: vaxByDate[d.Date.Format(sanitize.DateFormat)],
		})
	}

	tc := &models.TimelineCountry{
		Country:    country,
		Monthly:    timeline.Monthly(points),
		KeyMoments: timeline.ExtractKeyMoments(points),
		Completeness: map[string]float64{
			"cases":        completeness(points, func(p timeline.Point) *float64 { return p.Cases }),
			"deaths":       completeness(points, func(p timeline.Point) *float64 { return p.Deaths }),
			"vaccinations": completeness(points, func(p timeline.Point) *float64 { return p.Vaccinations }),
		},
	}
	return tc, nil
}

func completeness(points []timeline.Point, field func(timeline.Point) *float64) float64 {
	if len(points) == 0 {
		return 0
	}
	n := 0
	for _, p := range points {
		if field(p) != nil {
			n++
		}
	}
	return sanitize.Round(float64(n)/float64(len(points)), 3)
}

// globalMilestones is the fixed chronology attached to timeline
// responses on request.
func globalMilestones() []models.MilestoneEvent {
	return []models.MilestoneEvent{
		{Date: "2019-12-31", Event: "Cluster of pneumonia cases of unknown cause reported in Wuhan", Category: "outbreak"},
		{Date: "2020-01-30", Event: "WHO declares a Public Health Emergency of International Concern", Category: "who"},
		{Date: "2020-03-11", Event: "WHO characterizes COVID-19 as a pandemic", Category: "who"},
		{Date: "2020-11-09", Event: "First interim phase 3 efficacy results for an mRNA vaccine announced", Category: "vaccination"},
		{Date: "2020-12-08", Event: "First authorized COVID-19 vaccine dose administered outside trials", Category: "vaccination"},
		{Date: "2020-12-21", Event: "European Medicines Agency recommends first conditional marketing authorisation", Category: "vaccination"},
		{Date: "2021-05-01", Event: "One billion vaccine doses administered worldwide", Category: "vaccination"},
	}
}

// DataSourceQuality scores per-source coverage of the requested
// countries.
func (e *Engine) DataSourceQuality(ctx context.Context, countries []string, from, to *string) (models.DataSourceQualityReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
	}
	return memoize(e, "data_source_quality", params{countries, from, to}, func() (models.DataSourceQualityReport, error) {
		covered := e.coverageByKeySource(ctx, countries, from, to)

		report := models.DataSourceQualityReport{}
		var pctSum float64
		for _, src := range []string{source.SourceJHU, source.SourceECDC, source.SourceWHO, source.SourceOWID, source.SourceRestrictions} {
			pct := frame.CoveragePct(covered[src], len(countries))
			q := models.SourceQuality{
				Source:             src,
				CountriesRequested: len(countries),
				CountriesCovered:   covered[src],
				CoveragePct:        sanitize.Round(pct, 1),
				Rating:             e.cfg.Scales.CoverageRating(pct),
			}
			q.Recommendation = coverageRecommendation(q.Rating)
			report.Sources = append(report.Sources, q)
			pctSum += pct
		}
		overall := pctSum / float64(len(report.Sources))
		report.OverallCoveragePct = sanitize.Round(overall, 1)
		report.OverallRating = e.cfg.Scales.CoverageRating(overall)
		return report, nil
	})
}

// coverageByKeySource counts, per source, how many of the requested
// countries the source reported at all. Source failures count as zero
// coverage rather than aborting the report.
func (e *Engine) coverageByKeySource(ctx context.Context, countries []string, from, to *string) map[string]int {
	covered := make(map[string]int, 5)
	count := func(names []string) int {
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			seen[frame.Key(n)] = true
		}
		n := 0
		for _, c := range countries {
			if seen[frame.Key(c)] {
				n++
			}
		}
		return n
	}

	if totals, err := e.src.TotalsByCountry(ctx, countries, from, to); err == nil {
		names := make([]string, len(totals))
		for i, t := range totals {
			names[i] = t.Country
		}
		covered[source.SourceJHU] = count(names)
	}
	if aggs, err := e.src.ECDCAggregates(ctx, countries, from, to); err == nil {
		names := make([]string, len(aggs))
		for i, a := range aggs {
			names[i] = a.Country
		}
		covered[source.SourceECDC] = count(names)
	}
	if aggs, err := e.src.WHOAggregates(ctx, countries, from, to, 0); err == nil {
		names := make([]string, len(aggs))
		for i, a := range aggs {
			names[i] = a.Country
		}
		covered[source.SourceWHO] = count(names)
	}
	if rows, err := e.src.LatestVaccinations(ctx, countries, from, to, 0); err == nil {
		names := make([]string, len(rows))
		for i, r := range rows {
			names[i] = r.Country
		}
		covered[source.SourceOWID] = count(names)
	}
	if counts, err := e.src.RestrictionCounts(ctx, countries, from, to, 0); err == nil {
		names := make([]string, len(counts))
		for i, c := range counts {
			names[i] = c.Name
		}
		covered[source.SourceRestrictions] = count(names)
	}
	return covered
}

func coverageRecommendation(rating string) string {
	switch rating {
	case "excellent":
		return "suitable as a primary source for this cohort"
	case "good":
		return "suitable with spot checks against a second source"
	case "fair":
		return "use alongside another source"
	case "poor":
		return "significant gaps; corroborate every figure"
	default:
		return "insufficient coverage for this cohort"
	}
}

// CrossValidation scores cross-source agreement on one metric for the
// requested countries.
func (e *Engine) CrossValidation(ctx context.Context, countries []string, from, to *string, metric string) (models.CrossValidationReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
		Metric    string   `json:"metric"`
	}
	if metric == "" {
		metric = "cases"
	}
	return memoize(e, "cross_validation", params{countries, from, to, metric}, func() (models.CrossValidationReport, error) {
		frames := e.figureFrames(ctx, countries, from, to)
		joined := frame.Join(frames, frame.JoinLeft)

		report := models.CrossValidationReport{Metric: metric}
		for _, name := range joined.Entities {
			row := joined.Rows[frame.Key(name)]
			values := make(map[string]float64)
			for src, m := range row.Sources {
				if v := m[metric]; v != nil {
					values[src] = *v
				}
			}
			comparison := stats.CrossValidate(row.Name, values, e.cfg.Scales)
			if comparison == nil {
				continue
			}
			report.Comparisons = append(report.Comparisons, comparison)
			if comparison.Discrepancy {
				report.Discrepancies = append(report.Discrepancies,
					fmt.Sprintf("%s: %s figures vary %.1f%% across %d sources", row.Name, metric, comparison.CV, len(comparison.Sources)))
			}
		}
		if len(report.Comparisons) == 0 {
			return models.CrossValidationReport{}, fmt.Errorf("%w: no country is reported by two or more sources", stats.ErrInsufficientData)
		}
		report.Reliability = stats.RateSources(report.Comparisons, e.cfg.Scales)
		return report, nil
	})
}

// CorrelationMatrix computes the pairwise correlation matrix over the
// joined per-country metric frame.
func (e *Engine) CorrelationMatrix(ctx context.Context, countries []string, from, to *string) (models.CorrelationMatrixReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
	}
	return memoize(e, "correlation_matrix", params{countries, from, to}, func() (models.CorrelationMatrixReport, error) {
		ecdc, err := e.src.ECDCAggregates(ctx, countries, from, to)
		if err != nil {
			return models.CorrelationMatrixReport{}, err
		}
		if len(ecdc) < stats.MinCorrelationPairs {
			return models.CorrelationMatrixReport{}, fmt.Errorf("%w: %d countries with ECDC data, need %d", stats.ErrInsufficientData, len(ecdc), stats.MinCorrelationPairs)
		}

		ecdcFrame := frame.NewSourceFrame(source.SourceECDC)
		for _, a := range ecdc {
			ecdcFrame.Add(a.Country, map[string]*float64{
				"confirmed_cases": intAsFloatPtr(a.TotalCases),
				"deaths":          intAsFloatPtr(a.TotalDeaths),
				"deaths_per_100k": a.DeathsPer100k,
				"population":      intAsFloatPtr(a.Population),
			})
		}

		frames := []*frame.SourceFrame{ecdcFrame}
		if rows, err := e.src.LatestVaccinations(ctx, countries, from, to, 0); err == nil {
			f := frame.NewSourceFrame(source.SourceOWID)
			for _, r := range rows {
				f.Add(r.Country, map[string]*float64{"vaccination_rate": r.FullyPerHundred})
			}
			frames = append(frames, f)
		}
		if counts, err := e.src.RestrictionCounts(ctx, countries, from, to, 0); err == nil {
			f := frame.NewSourceFrame(source.SourceRestrictions)
			for _, c := range counts {
				v := float64(c.Count)
				f.Add(c.Name, map[string]*float64{"restrictions": &v})
			}
			frames = append(frames, f)
		}

		joined := frame.Join(frames, frame.JoinLeft)

		metricSources := []struct {
			name   string
			source string
		}{
			{"confirmed_cases", source.SourceECDC},
			{"deaths", source.SourceECDC},
			{"deaths_per_100k", source.SourceECDC},
			{"population", source.SourceECDC},
			{"vaccination_rate", source.SourceOWID},
			{"restrictions", source.SourceRestrictions},
		}

		names := make([]string, 0, len(metricSources))
		cols := make([][]float64, 0, len(metricSources))
		for _, ms := range metricSources {
			col := joined.MetricColumn(ms.source, ms.name)
			vals := make([]float64, len(col))
			observed := false
			for i, v := range col {
				if v != nil {
					vals[i] = *v
					observed = true
				} else {
					vals[i] = math.NaN()
				}
			}
			if !observed {
				continue
			}
			names = append(names, ms.name)
			cols = append(cols, vals)
		}

		matrix, strong := stats.Matrix(names, cols)
		report := models.CorrelationMatrixReport{
			Metrics:     names,
			Countries:   len(joined.Entities),
			Matrix:      matrix,
			StrongPairs: strong,
			Summary:     stats.Summarize(names, cols),
		}
		return report, nil
	})
}
