// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package source owns the DuckDB warehouse holding the six ingested
// COVID-19 source tables and the typed per-source aggregation queries
// the analytics engine runs against them.
//
// Every query uses parameterized ? placeholders; user input is never
// interpolated into SQL text. Query failures are wrapped in
// UnavailableError carrying the source key so multi-source operations
// can degrade per source instead of failing outright.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/logging"
)

// Source keys used in error wrapping, metrics labels, and multi-source
// response sections.
const (
	SourceJHU          = "jhu"
	SourceECDC         = "ecdc"
	SourceWHO          = "who"
	SourceOWID         = "owid"
	SourceRestrictions = "restrictions"
	SourceRKI          = "rki"
)

// Store wraps the DuckDB connection pool for the source warehouse.
type Store struct {
	conn *sql.DB
	cfg  config.DatabaseConfig
}

// New opens the warehouse at cfg.Path, creates the schema if missing,
// and optionally seeds demo data.
func New(cfg config.DatabaseConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path not configured: %w", config.ErrIncomplete)
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "512MB"
	}

	// Parent directory must exist before DuckDB can create the file.
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	// Auto-install/auto-load stay disabled so startup cannot hang on a
	// network fetch in restricted environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, threads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{conn: conn, cfg: cfg}

	if err := s.createTables(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	if cfg.SeedDemoData {
		if err := s.seedIfEmpty(context.Background()); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", threads).
		Str("max_memory", maxMemory).
		Msg("Source warehouse ready")

	return s, nil
}

// Close checkpoints the WAL and closes the connection pool. The
// checkpoint is best effort; a failure is logged, not returned.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint warehouse before close")
	}
	cancel()
	return s.conn.Close()
}

// Ping reports whether the warehouse connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("warehouse connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// RowCounts returns the row count of every source table, for the
// verbose health endpoint.
func (s *Store) RowCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(sourceTables))
	for _, table := range sourceTables {
		var n int64
		// Table names come from the static schema list, never from input.
		row := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table)
		if err := row.Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Exec runs a statement directly. Intended for ingest tooling and
// tests; analytics read paths go through the typed query methods.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.conn.ExecContext(ctx, query, args...)
	return err
}

// queryAndScan runs a query and feeds every row to scanner, collapsing
// the rows/err boilerplate the aggregate queries would otherwise repeat.
func (s *Store) queryAndScan(ctx context.Context, query string, args []any, scanner func(*sql.Rows) error) error {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scanner(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}
	return nil
}
