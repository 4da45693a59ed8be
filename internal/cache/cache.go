// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package cache provides the bounded in-memory result cache backing
// analytics memoization. Entries carry individual TTLs; capacity is
// enforced by least-recently-used eviction so a burst of distinct
// queries cannot grow the cache without bound.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultCapacity = 10000
	defaultTTL      = 15 * time.Minute

	cleanupInterval = 5 * time.Minute
)

// entry is a node of the doubly-linked recency list.
type entry struct {
	key       string
	value     any
	prev      *entry
	next      *entry
	expiresAt time.Time
}

// Cache is a thread-safe LRU cache with per-entry TTL.
//
// A hashmap gives O(1) lookup; a doubly-linked list with sentinel head
// and tail nodes gives O(1) recency updates and eviction. head.next is
// the most recently used entry, tail.prev the least. Expiration is lazy
// on Get plus a periodic background sweep.
type Cache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*entry
	head  *entry
	tail  *entry

	hits        int64
	misses      int64
	evictions   int64
	lastCleanup time.Time

	stop chan struct{}
	once sync.Once
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	Size        int       `json:"size"`
	Capacity    int       `json:"capacity"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// New creates a cache holding at most capacity entries with the given
// default TTL, and starts the background expiration sweep. Non-positive
// arguments fall back to the package defaults. Call Close to stop the
// sweep goroutine.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	c := &Cache{
		capacity:    capacity,
		ttl:         ttl,
		items:       make(map[string]*entry, capacity),
		head:        &entry{},
		tail:        &entry{},
		lastCleanup: time.Now(),
		stop:        make(chan struct{}),
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	go c.cleanupLoop()
	return c
}

// Get retrieves a value, refreshing its recency. An expired entry is
// removed and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.remove(e)
		c.misses++
		c.evictions++
		return nil, false
	}

	c.moveToFront(e)
	c.hits++
	return e.value, true
}

// Set stores a value under the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with an explicit TTL, evicting from the cold
// end if the cache is full.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(e)
	c.items[key] = e

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Delete removes a single entry. Safe to call for absent keys.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.remove(e)
		c.evictions++
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictions += int64(len(c.items))
	c.items = make(map[string]*entry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Size:        len(c.items),
		Capacity:    c.capacity,
		LastCleanup: c.lastCleanup,
	}
}

// HitRate returns the hit percentage over the cache lifetime.
func (c *Cache) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// Close stops the background cleanup goroutine. Idempotent.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup sweeps expired entries. Entries with mixed TTLs are not
// expiry-ordered along the recency list, so the whole list is scanned.
func (c *Cache) cleanup() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.tail.prev; e != c.head; {
		prev := e.prev
		if now.After(e.expiresAt) {
			c.remove(e)
			c.evictions++
		}
		e = prev
	}
	c.lastCleanup = now
}

// list operations, called with c.mu held

func (c *Cache) addToFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *Cache) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}

func (c *Cache) remove(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

func (c *Cache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.remove(oldest)
	c.evictions++
}

// GenerateKey derives a deterministic cache key from a method name and
// its parameters. Parameters are serialized to JSON and hashed so the
// key stays compact regardless of parameter size.
func GenerateKey(method string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
