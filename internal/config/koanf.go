// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/covidlens/config.yaml",
	"/etc/covidlens/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces every Covidlens environment variable.
const envPrefix = "COVIDLENS_"

// Load builds the configuration from three layers:
//  1. built-in defaults
//  2. optional YAML config file
//  3. COVIDLENS_* environment variables (highest priority)
//
// The result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path, honoring
// the CONFIG_PATH override, or empty when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps environment variable names to koanf paths:
//
//	COVIDLENS_SERVER_PORT      -> server.port
//	COVIDLENS_CACHE_DEFAULT_TTL -> cache.default_ttl
//
// Leaf names containing underscores cannot be derived mechanically, so
// they are mapped explicitly; unknown variables are dropped to keep the
// environment from polluting the config tree.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

var envMappings = map[string]string{
	"server_host":                "server.host",
	"server_port":                "server.port",
	"server_timeout":             "server.timeout",
	"environment":                "server.environment",
	"cors_origins":               "server.cors_origins",
	"rate_limit_requests":        "server.rate_limit_reqs",
	"rate_limit_window":          "server.rate_limit_window",
	"disable_rate_limit":         "server.rate_limit_disabled",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	"metastore_path":      "metastore.path",
	"metastore_in_memory": "metastore.in_memory",

	"cache_capacity":                  "cache.capacity",
	"cache_default_ttl":               "cache.default_ttl",
	"cache_daily_deaths_ttl":          "cache.daily_deaths_ttl",
	"cache_vaccination_mortality_ttl": "cache.vaccination_mortality_ttl",
	"cache_mortality_gdp_ttl":         "cache.mortality_gdp_ttl",

	"analytics_default_history_days":  "analytics.default_history_days",
	"analytics_default_forecast_days": "analytics.default_forecast_days",
	"analytics_max_forecast_days":     "analytics.max_forecast_days",
	"analytics_top_countries_limit":   "analytics.top_countries_limit",
	"analytics_strict_ordering":       "analytics.strict_ordering",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// sliceConfigPaths are parsed from comma-separated strings when they
// arrive via the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// WatchConfigFile invokes callback whenever the config file changes.
// The caller owns mutex protection around any reload it performs.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
