// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package cache

import (
	"time"

	"golang.org/x/sync/singleflight"
)

// Memoizer wraps the cache with compute-on-miss semantics for analytics
// operations. Concurrent misses on the same key are collapsed into a
// single computation via singleflight; waiters share the one result.
// Failed computations are never cached.
type Memoizer struct {
	cache      *Cache
	group      singleflight.Group
	ttls       map[string]time.Duration
	defaultTTL time.Duration
}

// NewMemoizer builds a memoizer over the given cache. ttls maps method
// names to their retention; methods not listed use defaultTTL.
func NewMemoizer(c *Cache, defaultTTL time.Duration, ttls map[string]time.Duration) *Memoizer {
	if defaultTTL <= 0 {
		defaultTTL = c.ttl
	}
	return &Memoizer{
		cache:      c,
		ttls:       ttls,
		defaultTTL: defaultTTL,
	}
}

// Do returns the cached result for (method, params) or computes it with
// fn. The bool reports whether the value came from cache.
func (m *Memoizer) Do(method string, params any, fn func() (any, error)) (any, bool, error) {
	key := GenerateKey(method, params)

	if v, ok := m.cache.Get(key); ok {
		return v, true, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		// Another flight may have populated the cache while this call
		// was queued on the group.
		if v, ok := m.cache.Get(key); ok {
			return v, nil
		}

		v, err := fn()
		if err != nil {
			return nil, err
		}
		m.cache.SetWithTTL(key, v, m.TTLFor(method))
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, false, nil
}

// TTLFor returns the retention configured for a method.
func (m *Memoizer) TTLFor(method string) time.Duration {
	if ttl, ok := m.ttls[method]; ok && ttl > 0 {
		return ttl
	}
	return m.defaultTTL
}

// Invalidate drops the cached result for one (method, params) pair.
func (m *Memoizer) Invalidate(method string, params any) {
	m.cache.Delete(GenerateKey(method, params))
}

// Flush drops every cached result.
func (m *Memoizer) Flush() {
	m.cache.Clear()
}

// Stats exposes the underlying cache counters.
func (m *Memoizer) Stats() Stats {
	return m.cache.GetStats()
}
