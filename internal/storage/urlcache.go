package storage

import (
	"context"
	"sync"
	"time"
)

// DefaultSignMargin is how much earlier than the signed URL's true expiry a
// cached entry expires, so a cached URL is never handed out mid-flight to a
// client only to expire before the fetch completes.
const DefaultSignMargin = 30 * time.Second

type cachedURL struct {
	url       string
	expiresAt time.Time
}

// URLCache memoizes access URLs per key (and preferred region). It is local
// to one process and purely an optimization; entries are swept by Cleanup
// from the server's housekeeping loop.
type URLCache struct {
	mu      sync.Mutex
	backend Backend
	margin  time.Duration
	entries map[string]cachedURL
}

func NewURLCache(backend Backend, margin time.Duration) *URLCache {
	if margin <= 0 {
		margin = DefaultSignMargin
	}
	return &URLCache{
		backend: backend,
		margin:  margin,
		entries: make(map[string]cachedURL),
	}
}

// GetURL returns an access URL for key, valid for at least the remainder of
// ttl. Cached entries expire strictly before the underlying signed URL does.
func (c *URLCache) GetURL(ctx context.Context, key string, ttl time.Duration, preferred Region) (string, error) {
	ck := cacheKey(key, preferred)
	now := time.Now()

	c.mu.Lock()
	if e, ok := c.entries[ck]; ok && now.Before(e.expiresAt) {
		c.mu.Unlock()
		return e.url, nil
	}
	c.mu.Unlock()

	var url string
	var err error
	if rb, ok := c.backend.(RegionalBackend); ok && preferred != "" {
		url, err = rb.AccessURLRegion(ctx, key, ttl, preferred)
	} else {
		url, err = c.backend.AccessURL(ctx, key, ttl)
	}
	if err != nil {
		return "", err
	}

	margin := c.margin
	if margin >= ttl {
		margin = ttl / 2
	}

	c.mu.Lock()
	c.entries[ck] = cachedURL{url: url, expiresAt: now.Add(ttl - margin)}
	c.mu.Unlock()

	return url, nil
}

// Invalidate drops the cached entries for key across all regions.
func (c *URLCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(key, ""))
	delete(c.entries, cacheKey(key, RegionUS))
	delete(c.entries, cacheKey(key, RegionEU))
	delete(c.entries, cacheKey(key, RegionLocal))
}

// Cleanup removes expired entries and returns how many were dropped.
func (c *URLCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached entries.
func (c *URLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheKey(key string, preferred Region) string {
	if preferred == "" {
		return key
	}
	return string(preferred) + "|" + key
}
