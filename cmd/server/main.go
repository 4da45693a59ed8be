// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package main is the entry point for the covidlens server.
//
// Covidlens joins six COVID-19 reporting sources (JHU, ECDC, WHO,
// OWID, HDX airline restrictions, RKI) in an embedded DuckDB warehouse
// and serves cross-source analytics over HTTP: delta extraction,
// correlation and regression studies, ARIMA forecasting, cross-source
// consistency scoring, and timeline extraction.
//
// Startup order:
//
//  1. Configuration: koanf layering of defaults, config.yaml, and
//     COVIDLENS_ environment variables
//  2. Logging: global zerolog setup
//  3. Source store: DuckDB warehouse (optionally demo-seeded)
//  4. Metastore: Badger document store for country metadata and
//     dashboard annotations
//  5. Memoizer: TTL+LRU cache with single-flight coalescing
//  6. Engine and HTTP router
//
// The server shuts down gracefully on SIGINT and SIGTERM, draining
// in-flight requests before closing the stores.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covidlens/covidlens/internal/api"
	"github.com/covidlens/covidlens/internal/cache"
	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/engine"
	"github.com/covidlens/covidlens/internal/logging"
	"github.com/covidlens/covidlens/internal/metastore"
	"github.com/covidlens/covidlens/internal/source"
)

const shutdownGrace = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", engine.Version).
		Str("environment", cfg.Server.Environment).
		Msg("starting covidlens")

	src, err := source.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening source store: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("closing source store")
		}
	}()

	meta, err := metastore.Open(cfg.Metastore)
	if err != nil {
		return fmt.Errorf("opening metastore: %w", err)
	}
	defer func() {
		if cerr := meta.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("closing metastore")
		}
	}()

	var memo *cache.Memoizer
	if cfg.Cache.Capacity > 0 {
		store := cache.New(cfg.Cache.Capacity, cfg.Cache.DefaultTTL)
		defer store.Close()

		memo = cache.NewMemoizer(store, cfg.Cache.DefaultTTL, map[string]time.Duration{
			"daily_deaths":          cfg.Cache.DailyDeathsTTL,
			"vaccination_mortality": cfg.Cache.VaccinationMortalityTTL,
			"mortality_gdp":         cfg.Cache.MortalityGDPTTL,
		})
	} else {
		logging.Warn().Msg("cache capacity is zero, memoization disabled")
	}

	eng := engine.New(src, meta, memo, cfg.Analytics)
	router := api.NewRouter(eng, cfg.Server)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("http server listening")
		if serr := srv.ListenAndServe(); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}
