package api

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// tokenCache is a thread-safe map of fingerprint -> bearer token with
// per-entry expiry. Expiry is enforced on read; a cron janitor additionally
// sweeps stale entries so abandoned fingerprints do not accumulate.
type tokenCache struct {
	mu      sync.RWMutex
	entries map[string]tokenEntry
	janitor *cron.Cron
}

type tokenEntry struct {
	value     string
	expiresAt time.Time
}

// newTokenCache creates a cache. sweepSpec is a cron spec (e.g. "@every 1m")
// for the background sweep; an empty spec disables the janitor, leaving
// expiry purely read-enforced.
func newTokenCache(sweepSpec string) *tokenCache {
	c := &tokenCache{entries: make(map[string]tokenEntry)}
	if sweepSpec != "" {
		c.janitor = cron.New()
		if _, err := c.janitor.AddFunc(sweepSpec, func() { c.sweep(time.Now()) }); err == nil {
			c.janitor.Start()
		}
	}
	return c
}

// Get returns a cached token if present and not expired at the given instant
func (c *tokenCache) Get(key string, now time.Time) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || !now.Before(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

// Put stores or replaces the token for a fingerprint
func (c *tokenCache) Put(key, value string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = tokenEntry{value: value, expiresAt: expiresAt}
}

// Clear removes all cached tokens
func (c *tokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]tokenEntry)
}

// Len returns the current number of cached tokens
func (c *tokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// sweep evicts entries that have expired as of now
func (c *tokenCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Stop halts the background janitor
func (c *tokenCache) Stop() {
	if c.janitor != nil {
		c.janitor.Stop()
	}
}
