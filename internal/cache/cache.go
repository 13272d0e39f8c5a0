// Package cache provides a small TTL cache for per-application lookups that
// are expensive to repeat, like desktop-entry resolution.
package cache

import (
	"sync"
	"time"
)

// Config bounds a cache by entry age and count.
type Config struct {
	TTL     time.Duration
	MaxSize int
}

type entry[V any] struct {
	data  V
	added time.Time
}

// TTL is a mutex-guarded map with per-entry expiry. When the entry count
// exceeds MaxSize after an insert, expired entries are swept out.
type TTL[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	config  Config

	now func() time.Time // replaceable in tests
}

func New[K comparable, V any](config Config) *TTL[K, V] {
	return &TTL[K, V]{
		entries: make(map[K]entry[V]),
		config:  config,
		now:     time.Now,
	}
}

// Get returns the cached value for key if it exists and has not expired.
// Expired entries are removed on access.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.added) >= c.config.TTL {
		delete(c.entries, key)
		return zero, false
	}
	return e.data, true
}

// Set stores data under key, restarting its TTL.
func (c *TTL[K, V]) Set(key K, data V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{data: data, added: c.now()}
	if len(c.entries) > c.config.MaxSize {
		c.cleanupLocked()
	}
}

// Len reports the current entry count, including not-yet-swept expired entries.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTL[K, V]) cleanupLocked() {
	cutoff := c.now()
	for key, e := range c.entries {
		if cutoff.Sub(e.added) >= c.config.TTL {
			delete(c.entries, key)
		}
	}
}
