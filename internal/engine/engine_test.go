// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covidlens/covidlens/internal/cache"
	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/forecast"
	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/source"
	"github.com/covidlens/covidlens/internal/stats"
)

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

func testEngine(src *stubSource, meta *stubMeta) *Engine {
	if meta == nil {
		meta = newStubMeta()
	}
	cfg := config.AnalyticsConfig{
		DefaultHistoryDays:  30,
		DefaultForecastDays: 7,
		MaxForecastDays:     30,
		TopCountriesLimit:   10,
		Scales:              stats.DefaultScales(),
	}
	return New(src, meta, nil, cfg)
}

func cumSeries(t *testing.T, start string, values ...*float64) []stats.CumulativePoint {
	t.Helper()
	day, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	points := make([]stats.CumulativePoint, len(values))
	for i, v := range values {
		points[i] = stats.CumulativePoint{Date: day.AddDate(0, 0, i), Value: v}
	}
	return points
}

func TestDailyDeaths(t *testing.T) {
	src := newStubSource()
	// 10 -> 15 -> revision down to 12 -> 20, with one missing day.
	src.series["germany|deaths"] = cumSeries(t, "2021-01-01", fp(10), fp(15), fp(12), nil, fp(20))

	e := testEngine(src, nil)
	report, cached, err := e.DailyDeaths(context.Background(), "Germany", 2021)
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Equal(t, "Germany", report.Country)
	assert.Equal(t, 4, report.Days, "first observation has no delta")
	assert.Equal(t, 1, report.Corrections, "downward revision clamped once")
	require.Len(t, report.Series, 4)

	assert.Equal(t, int64(5), *report.Series[0].Deaths)
	assert.Equal(t, int64(0), *report.Series[1].Deaths, "clamped to zero")
	assert.Nil(t, report.Series[2].Deaths, "missing neighbor propagates")
	assert.Nil(t, report.Series[3].Deaths)
	assert.Equal(t, int64(5), report.TotalDeaths)
}

func TestDailyDeathsNoData(t *testing.T) {
	e := testEngine(newStubSource(), nil)

	_, _, err := e.DailyDeaths(context.Background(), "Atlantis", 2021)
	assert.ErrorIs(t, err, stats.ErrInsufficientData)
}

func TestDailyDeathsSourceUnavailable(t *testing.T) {
	src := newStubSource()
	src.errs["CumulativeSeries"] = &source.UnavailableError{Source: source.SourceJHU, Err: errors.New("io error")}

	e := testEngine(src, nil)
	_, _, err := e.DailyDeaths(context.Background(), "Germany", 2021)

	var ue *source.UnavailableError
	assert.ErrorAs(t, err, &ue)
}

func TestSummaryZeroIsValid(t *testing.T) {
	src := newStubSource()
	src.series["germany|confirmed"] = cumSeries(t, "2021-06-01", fp(500), fp(500), fp(500))

	e := testEngine(src, nil)
	summary, _, err := e.Summary(context.Background(), "Germany", "confirmed", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.Total)
	assert.Equal(t, 2, summary.Days)
	require.NotNil(t, summary.DailyAverage)
	assert.Equal(t, 0.0, *summary.DailyAverage)
}

func TestGermanyRegionalTotals(t *testing.T) {
	src := newStubSource()
	src.counties = []models.GermanCounty{
		{County: "SK München", Cases: ip(60000), Deaths: ip(900), DeathRate: fp(1.5)},
		{County: "SK Berlin Mitte", Cases: ip(21000), Deaths: ip(260), DeathRate: fp(1.24)},
		{County: "LK Heinsberg"},
	}

	e := testEngine(src, nil)
	report, _, err := e.GermanyRegional(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.CountyCount)
	assert.Equal(t, int64(81000), report.TotalCases)
	assert.Equal(t, int64(1160), report.TotalDeaths)
	require.NotNil(t, report.AvgDeathRate)
	assert.InDelta(t, 1.37, *report.AvgDeathRate, 0.001, "average over reporting counties only")
}

func TestWHOReportsBreakdown(t *testing.T) {
	community := "Community transmission"
	clusters := "Clusters of cases"
	src := newStubSource()
	src.who = []models.WHOCountryAggregate{
		{Country: "France", TotalCases: ip(500), Transmission: &community},
		{Country: "Germany", TotalCases: ip(200), Transmission: &community},
		{Country: "Iceland", TotalCases: ip(10), Transmission: &clusters},
	}

	e := testEngine(src, nil)
	report, _, err := e.WHOReports(context.Background(), nil, nil, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Countries)
	assert.Equal(t, 2, report.TransmissionBreakdown[community])
	assert.Equal(t, 1, report.TransmissionBreakdown[clusters])
	assert.Len(t, report.DetailedReports, 2, "limit honored")
}

func TestTravelRestrictionsZero(t *testing.T) {
	e := testEngine(newStubSource(), nil)

	report, _, err := e.TravelRestrictions(context.Background(), nil, nil)
	require.NoError(t, err, "zero restrictions is a valid answer")
	assert.Zero(t, report.TotalRestrictions)
	assert.Empty(t, report.ByCountry)
}

func TestPredictInfectionsInsufficientData(t *testing.T) {
	src := newStubSource()
	src.series["germany|confirmed"] = cumSeries(t, "2021-01-01", fp(10), fp(20), fp(30), fp(40), fp(50))

	e := testEngine(src, nil)
	_, _, err := e.PredictInfections(context.Background(), "Germany", 7)
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestPredictInfectionsShape(t *testing.T) {
	src := newStubSource()
	values := make([]*float64, 31)
	total := 0.0
	for i := range values {
		total += 100 + float64(i%5)
		v := total
		values[i] = &v
	}
	src.series["germany|confirmed"] = cumSeries(t, "2021-01-01", values...)

	e := testEngine(src, nil)
	report, _, err := e.PredictInfections(context.Background(), "Germany", 7)
	require.NoError(t, err)

	assert.Equal(t, "Germany", report.Country)
	assert.Equal(t, "ARIMA(2,1,2)", report.Model)
	assert.Equal(t, 7, report.Horizon)
	require.Len(t, report.Points, 7)
	for _, p := range report.Points {
		assert.GreaterOrEqual(t, p.Predicted, 0.0)
		assert.LessOrEqual(t, p.Lower, p.Predicted)
		assert.GreaterOrEqual(t, p.Upper, p.Predicted)
	}
}

func TestComprehensiveReportFoldsFailures(t *testing.T) {
	src := newStubSource()
	src.totals = []source.JHUTotals{{Country: "Germany", Cases: fp(100), Deaths: fp(5)}}
	src.errs["ECDCAggregates"] = &source.UnavailableError{Source: source.SourceECDC, Err: errors.New("table missing")}
	src.counties = []models.GermanCounty{{County: "SK München", Cases: ip(60000)}}

	e := testEngine(src, nil)
	report, _, err := e.ComprehensiveReport(context.Background(), []string{"Germany"}, nil, nil)
	require.NoError(t, err, "sibling failures never abort the fan-in")

	assert.True(t, report.Sources[source.SourceJHU].Available)
	ecdc := report.Sources[source.SourceECDC]
	assert.False(t, ecdc.Available)
	assert.Contains(t, ecdc.Error, "unavailable")

	rki, ok := report.Sources[source.SourceRKI]
	require.True(t, ok, "Germany request includes the RKI detail")
	assert.True(t, rki.Available)

	report2, _, err := e.ComprehensiveReport(context.Background(), []string{"France"}, nil, nil)
	require.NoError(t, err)
	_, ok = report2.Sources[source.SourceRKI]
	assert.False(t, ok)
}

func TestMortalityVsGDP(t *testing.T) {
	src := newStubSource()
	src.seriesByCountry = map[string][]stats.CumulativePoint{
		"Richland":  cumSeries(t, "2021-01-01", fp(0), fp(100), fp(200)),
		"Midland":   cumSeries(t, "2021-01-01", fp(0), fp(200), fp(400)),
		"Poorland":  cumSeries(t, "2021-01-01", fp(0), fp(300), fp(600)),
		"Nometa":    cumSeries(t, "2021-01-01", fp(0), fp(50), fp(100)),
	}
	meta := newStubMeta()
	for _, doc := range []models.CountryMetadata{
		{Country: "Richland", GDPPerCapita: fp(60000), Population: ip(10_000_000)},
		{Country: "Midland", GDPPerCapita: fp(40000)},
		{Country: "Poorland", GDPPerCapita: fp(20000)},
	} {
		_, err := meta.UpsertCountry(context.Background(), doc)
		require.NoError(t, err)
	}

	e := testEngine(src, meta)
	report, _, err := e.MortalityVsGDP(context.Background(), 2021, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.N, "countries without metadata are excluded")
	require.NotNil(t, report.Correlation)
	assert.InDelta(t, -1.0, *report.Correlation, 1e-9, "deaths fall linearly with GDP in this fixture")
	assert.Equal(t, "very strong", report.Strength)
	require.Len(t, report.Sample, 3)
	assert.Equal(t, "Poorland", report.Sample[0].Country, "sorted by deaths descending")
	require.NotNil(t, report.Sample[2].DeathsPer100k)
	assert.InDelta(t, 2.0, *report.Sample[2].DeathsPer100k, 0.001)
}

func TestVaccinationVsMortalityPerfectNegative(t *testing.T) {
	src := newStubSource()
	src.vax = []models.VaccinationStatus{
		{Country: "A", FullyPerHundred: fp(10)},
		{Country: "B", FullyPerHundred: fp(20)},
		{Country: "C", FullyPerHundred: fp(30)},
		{Country: "NoEcdc", FullyPerHundred: fp(40)},
	}
	src.ecdc = []models.ECDCCountryAggregate{
		{Country: "a", TotalDeaths: ip(30000), Population: ip(10_000_000)},
		{Country: "b", TotalDeaths: ip(20000), Population: ip(10_000_000)},
		{Country: "c", TotalDeaths: ip(10000), Population: ip(10_000_000)},
	}

	e := testEngine(src, nil)
	report, _, err := e.VaccinationVsMortality(context.Background(), nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.N, "inner join drops one-sided countries")
	require.NotNil(t, report.Correlation)
	assert.InDelta(t, -1.0, *report.Correlation, 1e-9)
	assert.Equal(t, "negative", report.Relationship)
	assert.Contains(t, report.Interpretation, "lower population-adjusted mortality")
	assert.Equal(t, "C", report.Points[0].Country, "sorted by coverage descending")
}

func TestTravelRestrictionsImpactPartial(t *testing.T) {
	src := newStubSource()
	src.avgCases = []source.CountryAverage{{Country: "Germany", Value: 120.5}}

	e := testEngine(src, nil)
	report, _, err := e.TravelRestrictionsImpact(context.Background(), nil, nil, nil)
	require.NoError(t, err)

	assert.True(t, report.Partial)
	assert.Contains(t, report.Note, "no restriction data")
	require.Len(t, report.TopByCases, 1)
	assert.Nil(t, report.Correlation)
}

func TestMultiSourceComparison(t *testing.T) {
	src := newStubSource()
	src.totals = []source.JHUTotals{
		{Country: "Germany", Cases: fp(1000), Deaths: fp(50)},
		{Country: "France", Cases: fp(2000), Deaths: fp(80)},
	}
	src.ecdc = []models.ECDCCountryAggregate{
		{Country: "germany", TotalCases: ip(1050), TotalDeaths: ip(52)},
	}
	src.who = []models.WHOCountryAggregate{
		{Country: "GERMANY", TotalCases: ip(980), TotalDeaths: ip(49)},
	}

	e := testEngine(src, nil)
	report, _, err := e.MultiSourceComparison(context.Background(), []string{"Germany", "France", "Atlantis"}, nil, nil)
	require.NoError(t, err)

	require.Len(t, report.Comparisons, 3, "every requested country is echoed")

	de := report.Comparisons[0]
	assert.Equal(t, 3, de.SourcesReporting)
	assert.Equal(t, 1000.0, *de.Sources[source.SourceJHU].Cases)
	assert.Equal(t, 1050.0, *de.Sources[source.SourceECDC].Cases)

	fr := report.Comparisons[1]
	assert.Equal(t, 1, fr.SourcesReporting)

	atlantis := report.Comparisons[2]
	assert.Zero(t, atlantis.SourcesReporting)

	assert.Equal(t, 2, report.Availability[source.SourceJHU])
	assert.Equal(t, 1, report.Availability[source.SourceECDC])
}

func TestPandemicTimeline(t *testing.T) {
	src := newStubSource()
	base := d2(t, "2021-01-01")
	src.daily["germany"] = []source.ECDCDaily{
		{Date: base, Cases: fp(0), Deaths: fp(0)},
		{Date: base.AddDate(0, 0, 1), Cases: fp(10), Deaths: fp(0)},
		{Date: base.AddDate(0, 0, 2), Cases: fp(30), Deaths: fp(1)},
		{Date: base.AddDate(0, 0, 3), Cases: fp(35), Deaths: nil},
	}
	src.vaxSeries["germany"] = []source.OWIDDaily{
		{Date: base.AddDate(0, 0, 2), TotalVaccinations: fp(1000)},
	}

	e := testEngine(src, nil)
	report, _, err := e.PandemicTimeline(context.Background(), []string{"Germany"}, nil, nil, true)
	require.NoError(t, err)

	require.Len(t, report.Countries, 1)
	tc := report.Countries[0]
	require.NotNil(t, tc.KeyMoments.FirstCase.Date)
	assert.Equal(t, "2021-01-02", *tc.KeyMoments.FirstCase.Date)
	require.NotNil(t, tc.KeyMoments.VaccinationStart.Date)
	assert.Equal(t, "2021-01-03", *tc.KeyMoments.VaccinationStart.Date)
	assert.Equal(t, 1.0, tc.Completeness["cases"])
	assert.InDelta(t, 0.75, tc.Completeness["deaths"], 0.001)
	assert.NotEmpty(t, report.Milestones)

	_, _, err = e.PandemicTimeline(context.Background(), []string{"Atlantis"}, nil, nil, false)
	assert.ErrorIs(t, err, stats.ErrInsufficientData)
}

func TestDataSourceQuality(t *testing.T) {
	src := newStubSource()
	countries := []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "C10"}
	for i, c := range countries {
		if i < 9 {
			src.totals = append(src.totals, source.JHUTotals{Country: c})
		}
		if i < 5 {
			src.ecdc = append(src.ecdc, models.ECDCCountryAggregate{Country: c})
		}
	}

	e := testEngine(src, nil)
	report, _, err := e.DataSourceQuality(context.Background(), countries, nil, nil)
	require.NoError(t, err)

	byKey := make(map[string]models.SourceQuality)
	for _, q := range report.Sources {
		byKey[q.Source] = q
	}
	assert.Equal(t, "excellent", byKey[source.SourceJHU].Rating)
	assert.InDelta(t, 90.0, byKey[source.SourceJHU].CoveragePct, 0.01)
	assert.Equal(t, "poor", byKey[source.SourceECDC].Rating)
	assert.Equal(t, "very_poor", byKey[source.SourceWHO].Rating)
}

func TestCrossValidation(t *testing.T) {
	src := newStubSource()
	src.totals = []source.JHUTotals{
		{Country: "Agreement", Cases: fp(100)},
		{Country: "Dispute", Cases: fp(100)},
	}
	src.ecdc = []models.ECDCCountryAggregate{
		{Country: "Agreement", TotalCases: ip(110)},
		{Country: "Dispute", TotalCases: ip(300)},
	}
	src.who = []models.WHOCountryAggregate{
		{Country: "Agreement", TotalCases: ip(90)},
	}

	e := testEngine(src, nil)
	report, _, err := e.CrossValidation(context.Background(), nil, nil, nil, "cases")
	require.NoError(t, err)

	require.Len(t, report.Comparisons, 2)
	byEntity := make(map[string]bool)
	for _, c := range report.Comparisons {
		byEntity[c.Entity] = c.Discrepancy
	}
	assert.False(t, byEntity["Agreement"], "CV about 8.16 percent stays consistent")
	assert.True(t, byEntity["Dispute"])
	require.Len(t, report.Discrepancies, 1)
	assert.Contains(t, report.Discrepancies[0], "Dispute")
	assert.NotEmpty(t, report.Reliability)
}

func TestCorrelationMatrix(t *testing.T) {
	src := newStubSource()
	for i := 1; i <= 4; i++ {
		src.ecdc = append(src.ecdc, models.ECDCCountryAggregate{
			Country:     string(rune('A' + i - 1)),
			TotalCases:  ip(int64(i * 1000)),
			TotalDeaths: ip(int64(i * 20)),
			Population:  ip(int64(i) * 1_000_000),
		})
	}

	e := testEngine(src, nil)
	report, _, err := e.CorrelationMatrix(context.Background(), nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Countries)
	assert.Contains(t, report.Metrics, "confirmed_cases")
	assert.NotContains(t, report.Metrics, "vaccination_rate", "all-missing columns are dropped")

	cell := report.Matrix["confirmed_cases"]["deaths"]
	require.NotNil(t, cell.Correlation)
	assert.InDelta(t, 1.0, *cell.Correlation, 1e-9)
	assert.NotEmpty(t, report.StrongPairs)
	assert.Equal(t, 4, report.Summary["confirmed_cases"].Count)
}

func TestMemoizationSharesResults(t *testing.T) {
	src := newStubSource()
	src.series["germany|deaths"] = cumSeries(t, "2021-01-01", fp(10), fp(15), fp(20))

	c := cache.New(100, time.Minute)
	t.Cleanup(c.Close)
	memo := cache.NewMemoizer(c, time.Minute, nil)

	e := New(src, newStubMeta(), memo, config.AnalyticsConfig{
		DefaultForecastDays: 7, MaxForecastDays: 30, TopCountriesLimit: 10,
		Scales: stats.DefaultScales(),
	})

	_, cached, err := e.DailyDeaths(context.Background(), "Germany", 2021)
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = e.DailyDeaths(context.Background(), "Germany", 2021)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, src.calls["CumulativeSeries"], "second call served from cache")

	// A different parameter set misses and recomputes.
	_, cached, err = e.DailyDeaths(context.Background(), "Germany", 2020)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, src.calls["CumulativeSeries"])
}

func TestHealthDegraded(t *testing.T) {
	src := newStubSource()
	src.rowCounts = map[string]int64{"ecdc_global": 10}

	e := testEngine(src, nil)
	status := e.Health(context.Background(), true)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, int64(10), status.Database.RowCounts["ecdc_global"])

	src.errs["Ping"] = errors.New("connection refused")
	status = e.Health(context.Background(), false)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "unhealthy", status.Database.Status)
}

func TestDataSourcesInfoCatalog(t *testing.T) {
	e := testEngine(newStubSource(), nil)
	catalog := e.DataSourcesInfo()
	require.Len(t, catalog, 6)
	keys := make(map[string]bool)
	for _, entry := range catalog {
		keys[entry.Key] = true
		assert.NotEmpty(t, entry.Table)
		assert.NotEmpty(t, entry.Provider)
	}
	assert.True(t, keys[source.SourceRKI])
}

func d2(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return day
}
