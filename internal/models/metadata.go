// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package models

import (
	"time"
)

// CountryMetadata is the reference document joined into GDP and
// population-adjusted analyses. Stored in the metastore keyed by
// case-folded country name.
type CountryMetadata struct {
	Country      string    `json:"country" validate:"required,countryname"`
	ISOCode      string    `json:"iso_code,omitempty" validate:"omitempty,len=3,alpha"`
	Continent    string    `json:"continent,omitempty"`
	Population   *int64    `json:"population,omitempty" validate:"omitempty,gt=0"`
	GDPPerCapita *float64  `json:"gdp_per_capita,omitempty" validate:"omitempty,gt=0"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpsertResult mirrors document-store upsert accounting: how many
// documents matched the key, how many were changed, how many were
// freshly inserted.
type UpsertResult struct {
	Matched  int `json:"matched"`
	Modified int `json:"modified"`
	Upserted int `json:"upserted"`
}

// Annotation is a free-text note attached to a dashboard.
type Annotation struct {
	ID          string    `json:"id"`
	DashboardID string    `json:"dashboard_id" validate:"required"`
	Author      string    `json:"author,omitempty"`
	Text        string    `json:"text" validate:"required,max=2000"`
	CreatedAt   time.Time `json:"created_at"`
}

// ComponentHealth is one dependency's standing in the health check.
type ComponentHealth struct {
	Status    string           `json:"status"`
	Error     string           `json:"error,omitempty"`
	RowCounts map[string]int64 `json:"row_counts,omitempty"`
}

// HealthStatus is the health endpoint response. Status is "healthy"
// when every component is, "degraded" otherwise.
type HealthStatus struct {
	Status    string          `json:"status"`
	Database  ComponentHealth `json:"database"`
	Metastore ComponentHealth `json:"metastore"`
	Version   string          `json:"version,omitempty"`
}

// SourceCatalogEntry describes one ingest source for the static catalog
// endpoint.
type SourceCatalogEntry struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Table    string   `json:"table"`
	Provider string   `json:"provider"`
	Grain    string   `json:"grain"`
	Metrics  []string `json:"metrics"`
}
