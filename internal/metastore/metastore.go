// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package metastore is the BadgerDB document store for reference data
// that does not live in the warehouse: country metadata (population,
// GDP per capita) and dashboard annotations. Values are JSON documents;
// listings use key-prefix iteration.
package metastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/covidlens/covidlens/internal/config"
	"github.com/covidlens/covidlens/internal/logging"
	"github.com/covidlens/covidlens/internal/metrics"
	"github.com/covidlens/covidlens/internal/models"
)

// Key prefixes.
const (
	countryKeyPrefix    = "country:"
	annotationKeyPrefix = "annotation:"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Store wraps the Badger database.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the metastore at cfg.Path. InMemory is for
// tests and ephemeral deployments.
func Open(cfg config.MetastoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("metastore path not configured: %w", config.ErrIncomplete)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open metastore: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Metastore ready")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Healthy reports whether the store accepts reads.
func (s *Store) Healthy() error {
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

func countryKey(name string) []byte {
	return []byte(countryKeyPrefix + strings.ToUpper(strings.TrimSpace(name)))
}

// UpsertCountry writes a country metadata document keyed by the
// case-folded name and reports document-store upsert accounting:
// matched and modified for an update that changed something, matched
// alone for a no-op rewrite, upserted for a fresh insert.
func (s *Store) UpsertCountry(ctx context.Context, meta models.CountryMetadata) (result models.UpsertResult, err error) {
	defer func() { metrics.RecordMetastoreOp("upsert_country", err) }()

	existing, getErr := s.GetCountry(ctx, meta.Country)
	switch {
	case getErr == nil:
		result.Matched = 1
		if !sameCountryDoc(*existing, meta) {
			result.Modified = 1
		}
	case errors.Is(getErr, ErrNotFound):
		result.Upserted = 1
	default:
		return models.UpsertResult{}, getErr
	}

	meta.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(meta)
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("marshal country document: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(countryKey(meta.Country), data)
	})
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("set country document: %w", err)
	}
	return result, nil
}

// GetCountry fetches one country document by name, case-insensitively.
func (s *Store) GetCountry(_ context.Context, name string) (*models.CountryMetadata, error) {
	var meta models.CountryMetadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(countryKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get country document: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListCountries returns every country document, sorted by name.
func (s *Store) ListCountries(_ context.Context) (docs []models.CountryMetadata, err error) {
	defer func() { metrics.RecordMetastoreOp("list_countries", err) }()

	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(countryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var meta models.CountryMetadata
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return fmt.Errorf("decode country document: %w", err)
			}
			docs = append(docs, meta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Country < docs[j].Country })
	return docs, nil
}

// AddAnnotation stores a dashboard annotation, assigning its ID and
// timestamp, and returns the stored document.
func (s *Store) AddAnnotation(_ context.Context, a models.Annotation) (stored models.Annotation, err error) {
	defer func() { metrics.RecordMetastoreOp("add_annotation", err) }()

	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(a)
	if err != nil {
		return models.Annotation{}, fmt.Errorf("marshal annotation: %w", err)
	}

	key := []byte(annotationKeyPrefix + a.DashboardID + ":" + a.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return models.Annotation{}, fmt.Errorf("set annotation: %w", err)
	}
	return a, nil
}

// ListAnnotations returns a dashboard's annotations, newest first.
// Limit of 0 means no limit.
func (s *Store) ListAnnotations(_ context.Context, dashboardID string, limit int) (notes []models.Annotation, err error) {
	defer func() { metrics.RecordMetastoreOp("list_annotations", err) }()

	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(annotationKeyPrefix + dashboardID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var a models.Annotation
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			}); err != nil {
				return fmt.Errorf("decode annotation: %w", err)
			}
			notes = append(notes, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

// sameCountryDoc compares two documents ignoring the write timestamp.
func sameCountryDoc(a, b models.CountryMetadata) bool {
	a.UpdatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
