// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package config defines the Covidlens configuration model and its layered
// loader. Precedence is environment variables over config file over
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/covidlens/covidlens/internal/stats"
)

// ErrIncomplete marks a configuration that is syntactically valid but
// missing a value the service cannot run without. Handlers map it to a
// configuration-error response rather than a generic failure.
var ErrIncomplete = errors.New("configuration incomplete")

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Metastore MetastoreConfig `koanf:"metastore"`
	Cache     CacheConfig     `koanf:"cache"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	Environment       string        `koanf:"environment" validate:"oneof=development production"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig controls the embedded DuckDB analytical store.
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads" validate:"gte=0"`
	SeedDemoData bool   `koanf:"seed_demo_data"`
}

// MetastoreConfig controls the Badger store for country metadata and
// analysis annotations.
type MetastoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// CacheConfig controls analytics result memoization. Per-method TTLs
// override DefaultTTL for the named operations.
type CacheConfig struct {
	Capacity                int           `koanf:"capacity" validate:"gte=0"`
	DefaultTTL              time.Duration `koanf:"default_ttl"`
	DailyDeathsTTL          time.Duration `koanf:"daily_deaths_ttl"`
	VaccinationMortalityTTL time.Duration `koanf:"vaccination_mortality_ttl"`
	MortalityGDPTTL         time.Duration `koanf:"mortality_gdp_ttl"`
}

// AnalyticsConfig carries the statistical knobs: window sizes, the
// forecasting horizon limit, and the qualitative rating thresholds.
type AnalyticsConfig struct {
	DefaultHistoryDays  int  `koanf:"default_history_days" validate:"gt=0"`
	DefaultForecastDays int  `koanf:"default_forecast_days" validate:"gt=0"`
	MaxForecastDays     int  `koanf:"max_forecast_days" validate:"gt=0"`
	TopCountriesLimit   int  `koanf:"top_countries_limit" validate:"gt=0"`
	StrictOrdering      bool `koanf:"strict_ordering"`

	Scales stats.Scales `koanf:"scales"`
}

// LoggingConfig controls the global zerolog setup.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			Environment:     "development",
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Database: DatabaseConfig{
			Path:      "/data/covidlens.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Metastore: MetastoreConfig{
			Path: "/data/metastore",
		},
		Cache: CacheConfig{
			Capacity:                10000,
			DefaultTTL:              15 * time.Minute,
			DailyDeathsTTL:          30 * time.Minute,
			VaccinationMortalityTTL: 45 * time.Minute,
			MortalityGDPTTL:         60 * time.Minute,
		},
		Analytics: AnalyticsConfig{
			DefaultHistoryDays:  30,
			DefaultForecastDays: 7,
			MaxForecastDays:     30,
			TopCountriesLimit:   10,
			StrictOrdering:      false,
			Scales:              stats.DefaultScales(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks structural constraints and required values. Missing
// required values wrap ErrIncomplete.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrIncomplete)
	}
	if c.Metastore.Path == "" && !c.Metastore.InMemory {
		return fmt.Errorf("%w: metastore.path is required unless metastore.in_memory is set", ErrIncomplete)
	}
	if c.Analytics.DefaultForecastDays > c.Analytics.MaxForecastDays {
		return fmt.Errorf("analytics.default_forecast_days %d exceeds analytics.max_forecast_days %d",
			c.Analytics.DefaultForecastDays, c.Analytics.MaxForecastDays)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid configuration: field %s failed rule %q", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
