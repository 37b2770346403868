package store

import (
	"context"
	"slices"
	"sync"
	"time"
)

type cachedEntry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

func (e cachedEntry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.storedAt) >= e.ttl
}

// MemoryCache is a process-local Cache with per-entry TTL expiration. It
// backs CachedStore when no Redis URL is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cachedEntry), now: time.Now}
}

// Get returns the value for key if present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.expired(c.now()) {
		return nil, false, nil
	}
	return slices.Clone(e.value), true, nil
}

// Set stores value under key.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedEntry{value: slices.Clone(value), storedAt: c.now(), ttl: ttl}
	return nil
}

// Delete removes keys.
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
