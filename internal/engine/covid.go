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
	"strings"
	"time"

	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/sanitize"
	"github.com/covidlens/covidlens/internal/source"
	"github.com/covidlens/covidlens/internal/stats"
)

// DailyDeaths derives the daily death series for one country and year
// from the JHU cumulative counts.
func (e *Engine) DailyDeaths(ctx context.Context, country string, year int) (models.DailyDeathsReport, bool, error) {
	type params struct {
		Country string `json:"country"`
		Year    int    `json:"year"`
	}
	return memoize(e, "daily_deaths", params{country, year}, func() (models.DailyDeathsReport, error) {
		from, to := yearRange(year)
		series, err := e.src.CumulativeSeries(ctx, country, source.CaseTypeDeaths, from, to)
		if err != nil {
			return models.DailyDeathsReport{}, err
		}
		if len(series) == 0 {
			return models.DailyDeathsReport{}, fmt.Errorf("%w: no deaths reported for %s in %d", stats.ErrInsufficientData, country, year)
		}

		deltas, err := stats.Deltas(series, e.cfg.StrictOrdering)
		if err != nil {
			return models.DailyDeathsReport{}, err
		}

		report := models.DailyDeathsReport{
			Country:     country,
			Year:        year,
			Days:        len(deltas.Points),
			Corrections: deltas.Corrections,
			Series:      make([]models.DailyDeathPoint, 0, len(deltas.Points)),
		}
		for _, p := range deltas.Points {
			point := models.DailyDeathPoint{Date: p.Date.Format(sanitize.DateFormat)}
			if p.Delta != nil {
				v := int64(math.Round(*p.Delta))
				point.Deaths = &v
				report.TotalDeaths += v
			}
			report.Series = append(report.Series, point)
		}
		return report, nil
	})
}

// Summary totals the clamped daily increments of one metric for a
// country over a period. A zero total over a populated window is a
// valid answer.
func (e *Engine) Summary(ctx context.Context, country, caseType string, from, to *string) (models.CountrySummary, bool, error) {
	type params struct {
		Country  string  `json:"country"`
		CaseType string  `json:"case_type"`
		From     *string `json:"from"`
		To       *string `json:"to"`
	}
	return memoize(e, "summary", params{country, caseType, from, to}, func() (models.CountrySummary, error) {
		series, err := e.src.CumulativeSeries(ctx, country, caseType, from, to)
		if err != nil {
			return models.CountrySummary{}, err
		}
		if len(series) == 0 {
			return models.CountrySummary{}, fmt.Errorf("%w: no %s data for %s in the requested period", stats.ErrInsufficientData, caseType, country)
		}

		deltas, err := stats.Deltas(series, e.cfg.StrictOrdering)
		if err != nil {
			return models.CountrySummary{}, err
		}

		total, counted := stats.SumDeltas(deltas.Points, false)
		summary := models.CountrySummary{
			Country:  country,
			CaseType: caseType,
			From:     from,
			To:       to,
			Total:    int64(math.Round(total)),
			Days:     counted,
		}
		if counted > 0 {
			summary.DailyAverage = sanitize.Float(sanitize.Round(total/float64(counted), 2))
		}
		return summary, nil
	})
}

// GermanyRegional reports the RKI county snapshot with national totals.
func (e *Engine) GermanyRegional(ctx context.Context, from, to *string) (models.GermanyRegionalReport, bool, error) {
	type params struct {
		From *string `json:"from"`
		To   *string `json:"to"`
	}
	return memoize(e, "germany_regional", params{from, to}, func() (models.GermanyRegionalReport, error) {
		counties, err := e.src.Counties(ctx, from, to, 0)
		if err != nil {
			return models.GermanyRegionalReport{}, err
		}
		if len(counties) == 0 {
			return models.GermanyRegionalReport{}, fmt.Errorf("%w: no RKI county data available", stats.ErrInsufficientData)
		}

		report := models.GermanyRegionalReport{
			Counties:    counties,
			CountyCount: len(counties),
		}
		var rateSum float64
		var rateN int
		for _, c := range counties {
			if c.Cases != nil {
				report.TotalCases += *c.Cases
			}
			if c.Deaths != nil {
				report.TotalDeaths += *c.Deaths
			}
			if c.DeathRate != nil {
				rateSum += *c.DeathRate
				rateN++
			}
		}
		if rateN > 0 {
			report.AvgDeathRate = sanitize.Float(sanitize.Round(rateSum/float64(rateN), 2))
		}
		return report, nil
	})
}

// GermanyCountiesSummary ranks the hardest-hit counties.
func (e *Engine) GermanyCountiesSummary(ctx context.Context, from, to *string, topN int) (models.GermanyCountiesSummary, bool, error) {
	type params struct {
		From *string `json:"from"`
		To   *string `json:"to"`
		TopN int     `json:"top_n"`
	}
	if topN <= 0 {
		topN = e.cfg.TopCountriesLimit
	}
	return memoize(e, "germany_counties", params{from, to, topN}, func() (models.GermanyCountiesSummary, error) {
		counties, err := e.src.Counties(ctx, from, to, 0)
		if err != nil {
			return models.GermanyCountiesSummary{}, err
		}
		if len(counties) == 0 {
			return models.GermanyCountiesSummary{}, fmt.Errorf("%w: no RKI county data available", stats.ErrInsufficientData)
		}

		summary := models.GermanyCountiesSummary{}
		var per100kSum float64
		var per100kN int
		for _, c := range counties {
			if c.Cases != nil {
				summary.TotalCases += *c.Cases
			}
			if c.Deaths != nil {
				summary.TotalDeaths += *c.Deaths
			}
			if c.CasesPer100k != nil {
				per100kSum += *c.CasesPer100k
				per100kN++
			}
		}
		if per100kN > 0 {
			summary.AvgCasesPer100k = sanitize.Float(sanitize.Round(per100kSum/float64(per100kN), 2))
		}
		if len(counties) > topN {
			counties = counties[:topN]
		}
		summary.TopByCases = counties
		return summary, nil
	})
}

// WHOReports aggregates the WHO situation reports per country.
func (e *Engine) WHOReports(ctx context.Context, from, to *string, limit int) (models.WHOReport, bool, error) {
	type params struct {
		From  *string `json:"from"`
		To    *string `json:"to"`
		Limit int     `json:"limit"`
	}
	if limit <= 0 {
		limit = 20
	}
	return memoize(e, "who_reports", params{from, to, limit}, func() (models.WHOReport, error) {
		aggs, err := e.src.WHOAggregates(ctx, nil, from, to, 0)
		if err != nil {
			return models.WHOReport{}, err
		}
		if len(aggs) == 0 {
			return models.WHOReport{}, fmt.Errorf("%w: no WHO situation reports in the requested period", stats.ErrInsufficientData)
		}

		report := models.WHOReport{
			Countries:             len(aggs),
			TransmissionBreakdown: make(map[string]int),
		}
		for _, a := range aggs {
			if a.Transmission != nil {
				report.TransmissionBreakdown[*a.Transmission]++
			}
		}
		report.CountrySummary = headWHO(aggs, e.cfg.TopCountriesLimit)
		report.DetailedReports = headWHO(aggs, limit)
		return report, nil
	})
}

func headWHO(aggs []models.WHOCountryAggregate, n int) []models.WHOCountryAggregate {
	if len(aggs) > n {
		return aggs[:n]
	}
	return aggs
}

// TravelRestrictions counts airline restrictions by country. An empty
// window is a legitimate zero-restrictions answer.
func (e *Engine) TravelRestrictions(ctx context.Context, from, to *string) (models.TravelRestrictionsReport, bool, error) {
	type params struct {
		From *string `json:"from"`
		To   *string `json:"to"`
	}
	return memoize(e, "travel_restrictions", params{from, to}, func() (models.TravelRestrictionsReport, error) {
		counts, err := e.src.RestrictionCounts(ctx, nil, from, to, 0)
		if err != nil {
			return models.TravelRestrictionsReport{}, err
		}
		recent, err := e.src.RecentRestrictions(ctx, nil, from, to, e.cfg.TopCountriesLimit)
		if err != nil {
			return models.TravelRestrictionsReport{}, err
		}

		report := models.TravelRestrictionsReport{
			ByCountry: counts,
			Recent:    recent,
		}
		for _, c := range counts {
			report.TotalRestrictions += c.Count
		}
		return report, nil
	})
}

// AirlinesAffected ranks airlines by restriction exposure.
func (e *Engine) AirlinesAffected(ctx context.Context, from, to *string, topN int) (models.AirlinesAffectedReport, bool, error) {
	type params struct {
		From *string `json:"from"`
		To   *string `json:"to"`
		TopN int     `json:"top_n"`
	}
	if topN <= 0 {
		topN = e.cfg.TopCountriesLimit
	}
	return memoize(e, "airlines_affected", params{from, to, topN}, func() (models.AirlinesAffectedReport, error) {
		airlines, err := e.src.AirlineCounts(ctx, from, to, 0)
		if err != nil {
			return models.AirlinesAffectedReport{}, err
		}

		report := models.AirlinesAffectedReport{TotalAirlines: len(airlines)}
		for _, a := range airlines {
			report.TotalRestrictions += a.Count
		}
		if len(airlines) > topN {
			airlines = airlines[:topN]
		}
		report.Top = airlines
		return report, nil
	})
}

// ECDCGlobal reports per-country ECDC aggregates with derived rates.
func (e *Engine) ECDCGlobal(ctx context.Context, countries []string, from, to *string) (models.ECDCGlobalReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
	}
	return memoize(e, "ecdc_global", params{countries, from, to}, func() (models.ECDCGlobalReport, error) {
		aggs, err := e.src.ECDCAggregates(ctx, countries, from, to)
		if err != nil {
			return models.ECDCGlobalReport{}, err
		}
		if len(aggs) == 0 {
			return models.ECDCGlobalReport{}, fmt.Errorf("%w: no ECDC data for the requested selection", stats.ErrInsufficientData)
		}

		report := models.ECDCGlobalReport{
			Countries:    aggs,
			CountryCount: len(aggs),
		}
		for _, a := range aggs {
			if a.TotalCases != nil {
				report.GlobalCases += *a.TotalCases
			}
			if a.TotalDeaths != nil {
				report.GlobalDeaths += *a.TotalDeaths
			}
		}
		return report, nil
	})
}

// Vaccinations reports the latest vaccination standing per country.
func (e *Engine) Vaccinations(ctx context.Context, countries []string, from, to *string) (models.VaccinationsReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
	}
	return memoize(e, "vaccinations", params{countries, from, to}, func() (models.VaccinationsReport, error) {
		rows, err := e.src.LatestVaccinations(ctx, countries, from, to, 0)
		if err != nil {
			return models.VaccinationsReport{}, err
		}
		if len(rows) == 0 {
			return models.VaccinationsReport{}, fmt.Errorf("%w: no vaccination data for the requested selection", stats.ErrInsufficientData)
		}
		return models.VaccinationsReport{Countries: rows, CountryCount: len(rows)}, nil
	})
}

// TopVaccinated ranks countries by full-vaccination rate and summarizes
// vaccine usage across all reporting countries.
func (e *Engine) TopVaccinated(ctx context.Context, limit int) (models.TopVaccinatedReport, bool, error) {
	type params struct {
		Limit int `json:"limit"`
	}
	if limit <= 0 {
		limit = e.cfg.TopCountriesLimit
	}
	return memoize(e, "top_vaccinated", params{limit}, func() (models.TopVaccinatedReport, error) {
		rows, err := e.src.LatestVaccinations(ctx, nil, nil, nil, 0)
		if err != nil {
			return models.TopVaccinatedReport{}, err
		}
		if len(rows) == 0 {
			return models.TopVaccinatedReport{}, fmt.Errorf("%w: no vaccination data available", stats.ErrInsufficientData)
		}

		report := models.TopVaccinatedReport{CountriesConsidered: len(rows)}

		usage := make(map[string]int)
		var rateSum float64
		var rateN int
		for _, r := range rows {
			if r.FullyPerHundred != nil {
				rateSum += *r.FullyPerHundred
				rateN++
			}
			if r.Vaccines != nil {
				for _, v := range strings.Split(*r.Vaccines, ",") {
					if name := strings.TrimSpace(v); name != "" {
						usage[name]++
					}
				}
			}
		}
		if rateN > 0 {
			report.AvgFullyPerHundred = sanitize.Float(sanitize.Round(rateSum/float64(rateN), 2))
		}
		for name, n := range usage {
			report.VaccineUsage = append(report.VaccineUsage, models.NameCount{Name: name, Count: n})
		}
		sort.Slice(report.VaccineUsage, func(i, j int) bool {
			if report.VaccineUsage[i].Count != report.VaccineUsage[j].Count {
				return report.VaccineUsage[i].Count > report.VaccineUsage[j].Count
			}
			return report.VaccineUsage[i].Name < report.VaccineUsage[j].Name
		})

		if len(rows) > limit {
			rows = rows[:limit]
		}
		report.Top = rows
		return report, nil
	})
}

// ComprehensiveReport fans in over every source for a set of countries.
// A failing source degrades to an unavailable section; the siblings are
// unaffected.
func (e *Engine) ComprehensiveReport(ctx context.Context, countries []string, from, to *string) (models.ComprehensiveReport, bool, error) {
	type params struct {
		Countries []string `json:"countries"`
		From      *string  `json:"from"`
		To        *string  `json:"to"`
	}
	return memoize(e, "comprehensive_report", params{countries, from, to}, func() (models.ComprehensiveReport, error) {
		report := models.ComprehensiveReport{
			Countries:   countries,
			From:        from,
			To:          to,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Sources:     make(map[string]models.SourceSection, 6),
		}

		report.Sources[source.SourceJHU] = section(func() (any, error) {
			return e.src.TotalsByCountry(ctx, countries, from, to)
		})
		report.Sources[source.SourceECDC] = section(func() (any, error) {
			return e.src.ECDCAggregates(ctx, countries, from, to)
		})
		report.Sources[source.SourceWHO] = section(func() (any, error) {
			return e.src.WHOAggregates(ctx, countries, from, to, 0)
		})
		report.Sources[source.SourceOWID] = section(func() (any, error) {
			return e.src.LatestVaccinations(ctx, countries, from, to, 0)
		})
		report.Sources[source.SourceRestrictions] = section(func() (any, error) {
			return e.src.RestrictionCounts(ctx, countries, from, to, 0)
		})
		if containsCountry(countries, "germany") {
			report.Sources[source.SourceRKI] = section(func() (any, error) {
				return e.src.Counties(ctx, from, to, e.cfg.TopCountriesLimit)
			})
		}
		return report, nil
	})
}

// section folds one source query into a per-source result: data on
// success, the error message on failure.
func section(fn func() (any, error)) models.SourceSection {
	data, err := fn()
	if err != nil {
		return models.SourceSection{Available: false, Error: err.Error()}
	}
	return models.SourceSection{Available: true, Data: data}
}

func containsCountry(countries []string, target string) bool {
	for _, c := range countries {
		if strings.EqualFold(strings.TrimSpace(c), target) {
			return true
		}
	}
	return false
}
