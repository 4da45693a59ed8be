// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/models"
)

// Router assembles the HTTP surface.
type Router struct {
	handler *Handler
	cfg     config.ServerConfig
}

// NewRouter builds a router over the engine.
func NewRouter(engine Analytics, cfg config.ServerConfig) *Router {
	return &Router{handler: NewHandler(engine), cfg: cfg}
}

// Setup wires middleware and routes and returns the root handler.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if !rt.cfg.RateLimitDisabled && rt.cfg.RateLimitReqs > 0 {
		r.Use(httprate.Limit(
			rt.cfg.RateLimitReqs,
			rt.cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited),
		))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	h := rt.handler

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/info/data-sources", h.DataSources)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/covid", func(r chi.Router) {
		r.Get("/daily_deaths", h.DailyDeaths)
		r.Get("/summary", h.Summary)
		r.Get("/germany/regional", h.GermanyRegional)
		r.Get("/germany/counties-summary", h.GermanyCountiesSummary)
		r.Get("/who/reports", h.WHOReports)
		r.Get("/travel/restrictions", h.TravelRestrictions)
		r.Get("/travel/airlines-affected", h.AirlinesAffected)
		r.Get("/ecdc/global", h.ECDCGlobal)
		r.Get("/vaccination", h.Vaccinations)
		r.Get("/vaccination/top-countries", h.TopVaccinated)
		r.Get("/comprehensive-report", h.ComprehensiveReport)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/mortality-vs-gdp", h.MortalityVsGDP)
		r.Get("/predict-infections", h.PredictInfections)
		r.Get("/vaccination-vs-mortality", h.VaccinationVsMortality)
		r.Get("/travel-restrictions-impact", h.TravelRestrictionsImpact)
		r.Get("/multi-source-comparison", h.MultiSourceComparison)
		r.Get("/pandemic-timeline", h.PandemicTimeline)
		r.Get("/data-source-quality", h.DataSourceQuality)
		r.Get("/cross-validation", h.CrossValidation)
		r.Get("/advanced-correlation-matrix", h.CorrelationMatrix)
	})

	r.Post("/metadata/country", h.UpsertCountryMeta)
	r.Get("/metadata/country", h.ListCountryMeta)
	r.Post("/annotations", h.AddAnnotation)
	r.Get("/annotations", h.ListAnnotations)

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondAPIError(w, r, http.StatusNotFound, &models.APIError{
		Code:    codeNotFound,
		Message: "unknown route: " + r.URL.Path,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondAPIError(w, r, http.StatusMethodNotAllowed, &models.APIError{
		Code:    codeMethodNotAllowed,
		Message: r.Method + " is not supported on " + r.URL.Path,
	})
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	respondAPIError(w, r, http.StatusTooManyRequests, &models.APIError{
		Code:    codeRateLimited,
		Message: "too many requests, slow down",
	})
}
