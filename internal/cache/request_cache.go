package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTTL bounds staleness when callers never invalidate.
const DefaultTTL = 5 * time.Minute

type entry struct {
	data     interface{}
	storedAt time.Time
}

// RequestCache memoizes idempotent read results for a short TTL, keyed by
// method + endpoint + serialized params. Invalidation is coarse: Clear
// drops everything; otherwise staleness is bounded by the TTL. Concurrent
// misses for the same key each fall through to the backend (a stampede is
// tolerated; the reads are idempotent and last write wins).
type RequestCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	// prune bookkeeping
	lastPrune time.Time
}

// New creates a RequestCache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *RequestCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RequestCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock overrides the time source. Test hook for TTL behavior.
func (c *RequestCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// BuildKey derives a cache key from the request method, endpoint and
// parameters. Params are sorted so key construction is order-independent.
func BuildKey(method, endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return method + " " + endpoint
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(endpoint)
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Get returns the cached value for key if present and fresh.
func (c *RequestCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	now := c.now()
	c.mu.RUnlock()

	if !ok || now.Sub(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.data, true
}

// Set stores a successful read result. Error outcomes must never be cached;
// that is the caller's contract.
func (c *RequestCache) Set(key string, data interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{data: data, storedAt: c.now()}
	c.pruneLocked()
	c.mu.Unlock()
}

// Clear drops every entry. This is the only invalidation primitive; content
// writes are infrequent enough that clear-all beats precise tracking.
func (c *RequestCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports the current entry count.
func (c *RequestCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// pruneLocked opportunistically evicts expired entries, at most once per
// TTL window so writes stay cheap. Caller holds the write lock.
func (c *RequestCache) pruneLocked() {
	now := c.now()
	if now.Sub(c.lastPrune) < c.ttl {
		return
	}
	c.lastPrune = now
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
}
