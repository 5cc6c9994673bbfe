// Package cache provides a small in-memory TTL cache keyed by string.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	fetchedAt time.Time
	value     V
}

// Memory is an in-memory TTL cache. Entries older than the TTL are treated as
// misses; they are never evicted individually, only overwritten on the next
// Set or dropped by Clear.
type Memory[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

// Option configures a Memory cache.
type Option[V any] func(*Memory[V])

// WithClock overrides the time source. Used by tests to control TTL expiry.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(m *Memory[V]) {
		m.now = now
	}
}

// NewMemory creates a cache whose entries expire after ttl.
func NewMemory[V any](ttl time.Duration, opts ...Option[V]) *Memory[V] {
	m := &Memory[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached value for key if it exists and is younger than the TTL.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || m.now().Sub(e.fetchedAt) >= m.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the current timestamp.
func (m *Memory[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry[V]{fetchedAt: m.now(), value: value}
}

// Clear drops every entry regardless of age.
func (m *Memory[V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry[V])
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
