// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/forecast"
	"github.com/covidlens/covidlens/internal/models"
	"github.com/covidlens/covidlens/internal/source"
)

// stubEngine embeds the Analytics interface and overrides only the
// methods a test exercises; calling anything else panics, which marks a
// routing mistake immediately.
type stubEngine struct {
	Analytics

	dailyDeaths   func(ctx context.Context, country string, year int) (models.DailyDeathsReport, bool, error)
	summary       func(ctx context.Context, country, caseType string, from, to *string) (models.CountrySummary, bool, error)
	predict       func(ctx context.Context, country string, horizon int) (models.ForecastReport, bool, error)
	restrictions  func(ctx context.Context, from, to *string) (models.TravelRestrictionsReport, bool, error)
	health        func(ctx context.Context, verbose bool) models.HealthStatus
	upsertCountry func(ctx context.Context, meta models.CountryMetadata) (models.UpsertResult, error)
	addAnnotation func(ctx context.Context, a models.Annotation) (models.Annotation, error)
	listNotes     func(ctx context.Context, dashboardID string, limit int) ([]models.Annotation, error)
	sourcesInfo   func() []models.SourceCatalogEntry
}

func (s *stubEngine) DailyDeaths(ctx context.Context, country string, year int) (models.DailyDeathsReport, bool, error) {
	return s.dailyDeaths(ctx, country, year)
}

func (s *stubEngine) Summary(ctx context.Context, country, caseType string, from, to *string) (models.CountrySummary, bool, error) {
	return s.summary(ctx, country, caseType, from, to)
}

func (s *stubEngine) PredictInfections(ctx context.Context, country string, horizon int) (models.ForecastReport, bool, error) {
	return s.predict(ctx, country, horizon)
}

func (s *stubEngine) TravelRestrictions(ctx context.Context, from, to *string) (models.TravelRestrictionsReport, bool, error) {
	return s.restrictions(ctx, from, to)
}

func (s *stubEngine) Health(ctx context.Context, verbose bool) models.HealthStatus {
	return s.health(ctx, verbose)
}

func (s *stubEngine) UpsertCountryMeta(ctx context.Context, meta models.CountryMetadata) (models.UpsertResult, error) {
	return s.upsertCountry(ctx, meta)
}

func (s *stubEngine) AddAnnotation(ctx context.Context, a models.Annotation) (models.Annotation, error) {
	return s.addAnnotation(ctx, a)
}

func (s *stubEngine) ListAnnotations(ctx context.Context, dashboardID string, limit int) ([]models.Annotation, error) {
	return s.listNotes(ctx, dashboardID, limit)
}

func (s *stubEngine) DataSourcesInfo() []models.SourceCatalogEntry {
	return s.sourcesInfo()
}

func testServer(t *testing.T, eng Analytics) *httptest.Server {
	t.Helper()
	rt := NewRouter(eng, config.ServerConfig{
		Environment:       "development",
		RateLimitDisabled: true,
	})
	srv := httptest.NewServer(rt.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string) (int, models.APIResponse) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec
	require.NoError(t, err)
	defer resp.Body.Close()

	var body models.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestDailyDeathsSuccessEnvelope(t *testing.T) {
	eng := &stubEngine{
		dailyDeaths: func(_ context.Context, country string, year int) (models.DailyDeathsReport, bool, error) {
			require.Equal(t, "Germany", country)
			require.Equal(t, 2021, year)
			return models.DailyDeathsReport{Country: country, Year: year, TotalDeaths: 42}, false, nil
		},
	}
	srv := testServer(t, eng)

	status, body := getJSON(t, srv.URL+"/covid/daily_deaths?country=Germany&year=2021")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body.Status)
	assert.Nil(t, body.Error)
	assert.False(t, body.Metadata.Cached)
	assert.False(t, body.Metadata.Timestamp.IsZero())

	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Germany", data["country"])
}

func TestDailyDeathsCachedMetadata(t *testing.T) {
	eng := &stubEngine{
		dailyDeaths: func(_ context.Context, country string, year int) (models.DailyDeathsReport, bool, error) {
			return models.DailyDeathsReport{Country: country, Year: year}, true, nil
		},
	}
	srv := testServer(t, eng)

	status, body := getJSON(t, srv.URL+"/covid/daily_deaths?country=France&year=2020")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, body.Metadata.Cached)
	assert.Zero(t, body.Metadata.QueryTimeMS)
}

func TestDailyDeathsValidation(t *testing.T) {
	srv := testServer(t, &stubEngine{})

	tests := []struct {
		name  string
		query string
	}{
		{"missing country", "year=2021"},
		{"missing year", "country=Germany"},
		{"year out of range", "country=Germany&year=1999"},
		{"year not numeric", "country=Germany&year=twenty"},
		{"country not a name", "country=%3Cscript%3E&year=2021"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := getJSON(t, srv.URL+"/covid/daily_deaths?"+tc.query)
			require.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, body.Error)
			assert.Equal(t, codeValidation, body.Error.Code)
			assert.Equal(t, "error", body.Status)
		})
	}
}

func TestDailyDeathsSourceUnavailableMapsTo502(t *testing.T) {
	eng := &stubEngine{
		dailyDeaths: func(context.Context, string, int) (models.DailyDeathsReport, bool, error) {
			return models.DailyDeathsReport{}, false, &source.UnavailableError{
				Source: source.SourceJHU,
				Err:    fmt.Errorf("connection refused"),
			}
		},
	}
	srv := testServer(t, eng)

	status, body := getJSON(t, srv.URL+"/covid/daily_deaths?country=Germany&year=2021")
	require.Equal(t, http.StatusBadGateway, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, codeSourceDown, body.Error.Code)
	assert.Equal(t, "jhu", body.Error.Details["source"])
}

func TestSummaryNormalizesCaseType(t *testing.T) {
	var got string
	eng := &stubEngine{
		summary: func(_ context.Context, _, caseType string, from, to *string) (models.CountrySummary, bool, error) {
			got = caseType
			require.NotNil(t, from)
			require.NotNil(t, to)
			return models.CountrySummary{CaseType: caseType}, false, nil
		},
	}
	srv := testServer(t, eng)

	status, _ := getJSON(t, srv.URL+"/covid/summary?country=Italy&case_type=cases&date_from=2021-01-01&date_to=2021-06-30")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "confirmed", got)
}

func TestSummaryDefaultsToDeaths(t *testing.T) {
	var got string
	eng := &stubEngine{
		summary: func(_ context.Context, _, caseType string, _, _ *string) (models.CountrySummary, bool, error) {
			got = caseType
			return models.CountrySummary{}, false, nil
		},
	}
	srv := testServer(t, eng)

	status, _ := getJSON(t, srv.URL+"/covid/summary?country=Italy&date_from=2021-01-01&date_to=2021-06-30")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "deaths", got)
}

func TestSummaryRejectsBadDates(t *testing.T) {
	srv := testServer(t, &stubEngine{})

	status, body := getJSON(t, srv.URL+"/covid/summary?country=Italy&date_from=January&date_to=2021-06-30")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeValidation, body.Error.Code)
}

func TestSummaryRejectsReversedDateRange(t *testing.T) {
	srv := testServer(t, &stubEngine{})

	status, body := getJSON(t, srv.URL+"/covid/summary?country=Italy&date_from=2021-06-30&date_to=2021-01-01")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeValidation, body.Error.Code)
	assert.Contains(t, body.Error.Message, "must not be before")
}

func TestPredictInfectionsInsufficientDataMapsTo404(t *testing.T) {
	eng := &stubEngine{
		predict: func(context.Context, string, int) (models.ForecastReport, bool, error) {
			return models.ForecastReport{}, false, fmt.Errorf("%w: 4 observations, need 10", forecast.ErrInsufficientData)
		},
	}
	srv := testServer(t, eng)

	status, body := getJSON(t, srv.URL+"/analytics/predict-infections?country=Germany")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, codeInsufficient, body.Error.Code)
}

func TestPredictInfectionsHorizonBounds(t *testing.T) {
	srv := testServer(t, &stubEngine{})

	status, body := getJSON(t, srv.URL+"/analytics/predict-infections?country=Germany&days_ahead=90")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeValidation, body.Error.Code)
}

func TestPredictInfectionsModelFitErrorMapsTo500(t *testing.T) {
	eng := &stubEngine{
		predict: func(context.Context, string, int) (models.ForecastReport, bool, error) {
			return models.ForecastReport{}, false, &forecast.FitError{Err: fmt.Errorf("optimizer diverged")}
		},
	}
	srv := testServer(t, eng)

	status, body := getJSON(t, srv.URL+"/analytics/predict-infections?country=Germany")
	require.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, codeModelFit, body.Error.Code)
}

func TestTravelRestrictionsZeroIsValid(t *testing.T) {
	eng := &stubEngine{
		restrictions: func(context.Context, *string, *string) (models.TravelRestrictionsReport, bool, error) {
			return models.TravelRestrictionsReport{TotalRestrictions: 0}, false, nil
		},
	}
	srv := testServer(t, eng)

	status, body := getJSON(t, srv.URL+"/covid/travel/restrictions?date_from=2020-01-01&date_to=2020-01-02")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body.Status)
}

func TestHealthDegradedReturns503(t *testing.T) {
	eng := &stubEngine{
		health: func(_ context.Context, verbose bool) models.HealthStatus {
			require.True(t, verbose)
			return models.HealthStatus{
				Status:   "degraded",
				Database: models.ComponentHealth{Status: "unhealthy", Error: "ping failed"},
			}
		},
	}
	srv := testServer(t, eng)

	status, body := getJSON(t, srv.URL+"/health?verbose=1")
	require.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "success", body.Status)

	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "degraded", data["status"])
}

func TestUpsertCountryMeta(t *testing.T) {
	eng := &stubEngine{
		upsertCountry: func(_ context.Context, meta models.CountryMetadata) (models.UpsertResult, error) {
			require.Equal(t, "Germany", meta.Country)
			return models.UpsertResult{Upserted: 1}, nil
		},
	}
	srv := testServer(t, eng)

	payload := `{"country":"Germany","iso_code":"DEU","population":83000000,"gdp_per_capita":46200}`
	resp, err := http.Post(srv.URL+"/metadata/country", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body models.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["upserted"])
}

func TestUpsertCountryMetaRejectsInvalidBody(t *testing.T) {
	srv := testServer(t, &stubEngine{})

	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"country":`},
		{"missing country", `{"iso_code":"DEU"}`},
		{"bad iso code", `{"country":"Germany","iso_code":"X1"}`},
		{"negative population", `{"country":"Germany","population":-5}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/metadata/country", "application/json", strings.NewReader(tc.payload))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body models.APIResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, codeValidation, body.Error.Code)
		})
	}
}

func TestAnnotationsDefaultDashboard(t *testing.T) {
	eng := &stubEngine{
		addAnnotation: func(_ context.Context, a models.Annotation) (models.Annotation, error) {
			require.Equal(t, "covid_dashboard", a.DashboardID)
			a.ID = "a-1"
			a.CreatedAt = time.Now().UTC()
			return a, nil
		},
		listNotes: func(_ context.Context, dashboardID string, limit int) ([]models.Annotation, error) {
			require.Equal(t, "covid_dashboard", dashboardID)
			require.Equal(t, 100, limit)
			return []models.Annotation{{ID: "a-1", DashboardID: dashboardID, Text: "wave two begins"}}, nil
		},
	}
	srv := testServer(t, eng)

	resp, err := http.Post(srv.URL+"/annotations", "application/json",
		strings.NewReader(`{"text":"wave two begins"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := getJSON(t, srv.URL+"/annotations")
	require.Equal(t, http.StatusOK, status)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["count"])
}

func TestDataSourcesCatalog(t *testing.T) {
	eng := &stubEngine{
		sourcesInfo: func() []models.SourceCatalogEntry {
			return []models.SourceCatalogEntry{{Key: "jhu"}, {Key: "ecdc"}}
		},
	}
	srv := testServer(t, eng)

	status, body := getJSON(t, srv.URL+"/info/data-sources")
	require.Equal(t, http.StatusOK, status)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	sources, ok := data["sources"].([]interface{})
	require.True(t, ok)
	assert.Len(t, sources, 2)
}
