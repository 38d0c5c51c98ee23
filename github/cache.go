package github

import (
	"sync"
	"time"
)

// responseCache is a goroutine-safe TTL cache for upstream responses,
// keyed by full request URL. Entries hold the raw JSON body so a hit
// can be decoded into any caller-supplied type.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

func newResponseCache() *responseCache {
	return &responseCache{entries: make(map[string]cacheEntry)}
}

// get returns the cached body for key, or ok=false on a miss or an
// expired entry. Expired entries are evicted on read.
func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.body, true
}

// set stores body under key for ttl. A non-positive ttl disables caching
// for the entry.
func (c *responseCache) set(key string, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{body: body, expires: time.Now().Add(ttl)}
}
