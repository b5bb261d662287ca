// Package cache implements the request-coalescing cache shared by every
// upstream adapter: identical (method, url, params, body) calls within the
// cache's TTL resolve to a single in-flight fetch and a single cached result.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Fetcher is the shape of a fetch function a caller coalesces through the
// cache: it runs at most once per key per TTL window.
type Fetcher func(ctx context.Context) (interface{}, error)

// Cache is an in-process, mutex-guarded coalescing cache. One Cache is
// shared across all adapters and all screening sessions for the life of the
// process; each entry expires after the TTL.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	inFlight map[string]*call
	ttl     time.Duration
	mirror  Mirror
}

// call tracks a single in-flight fetch so concurrent requests for the same
// key wait on one upstream call instead of issuing duplicates.
type call struct {
	done  chan struct{}
	value interface{}
	err   error
}

// Mirror is an optional secondary store (e.g. Redis) that receives a JSON
// copy of every cache write. It is best-effort: GetOrFetch logs mirror
// errors and never returns them. The cache does not read back from it.
type Mirror interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// New creates a Cache with the given default TTL. A nil mirror disables the
// secondary store.
func New(ttl time.Duration, mirror Mirror) *Cache {
	return &Cache{
		entries:  make(map[string]entry),
		inFlight: make(map[string]*call),
		ttl:      ttl,
		mirror:   mirror,
	}
}

// GetOrFetch returns the cached value for key if present and unexpired;
// otherwise it runs fetch exactly once even under concurrent callers, caches
// the result, and returns it.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch Fetcher) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.value, nil
	}

	if inFlight, ok := c.inFlight[key]; ok {
		c.mu.Unlock()
		<-inFlight.done
		return inFlight.value, inFlight.err
	}

	cl := &call{done: make(chan struct{})}
	c.inFlight[key] = cl
	c.mu.Unlock()

	value, err := fetch(ctx)

	c.mu.Lock()
	delete(c.inFlight, key)
	if err == nil {
		c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	}
	c.mu.Unlock()

	cl.value, cl.err = value, err
	close(cl.done)

	if err == nil && c.mirror != nil {
		data, mErr := json.Marshal(value)
		if mErr == nil {
			mErr = c.mirror.Set(ctx, key, data, c.ttl)
		}
		if mErr != nil {
			slog.Warn("cache: mirror write failed", "key", key, "error", mErr)
		}
	}

	return value, err
}

// Invalidate removes a cached entry, so the next GetOrFetch for that key
// runs its fetch again.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of live (possibly expired, not yet swept) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
