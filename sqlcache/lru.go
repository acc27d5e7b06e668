// Package sqlcache implements the three fingerprint-keyed, size-bounded
// caches named in spec §4.6 (parse/pipeline/filter), each an independent
// shard-free LRU guarded by one mutex. Grounded on a pack-adjacent
// pack example's StatementCache (other_examples'
// dan-strohschein-syndrdb-drivers statement_cache.go): a map plus an
// access-order slice for LRU eviction, and an atomic-counter CacheStats
// struct, generalized from "prepared statement handles" to "any fingerprint-
// keyed value" via a small generic LRU.
package sqlcache

import (
	"sync"
	"sync/atomic"

	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// Stats mirrors a pack-adjacent example's CacheStats shape (atomic
// counters safe for concurrent readers per spec §5).
type Stats struct {
	Hits      atomic.Int64
	Misses    atomic.Int64
	Evictions atomic.Int64
}

// Snapshot is a point-in-time copy of Stats, safe to return by value.
type Snapshot struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

type entry[V any] struct {
	key   sqlspec.Fingerprint
	value V
}

// LRU is a fixed-capacity, fingerprint-keyed cache safe for concurrent
// readers and writers (spec §5: "an internally-locked LRU (striped or
// shard-locked) is acceptable"). Cache misses do not block across threads:
// two goroutines computing the same key may both compute and race to
// insert; GetOrCompute below makes the first insertion win.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	order    []sqlspec.Fingerprint // front = most recently used
	items    map[sqlspec.Fingerprint]*entry[V]
	stats    Stats
	enabled  bool
}

// New returns an LRU with the given capacity. enabled=false makes every Get
// report a miss and every Set a no-op, matching StatementConfig.CachePolicy's
// per-cache enable flags (spec §3) without callers needing a second code
// path.
func New[V any](capacity int, enabled bool) *LRU[V] {
	return &LRU[V]{
		capacity: capacity,
		items:    make(map[sqlspec.Fingerprint]*entry[V]),
		enabled:  enabled,
	}
}

// Get returns the value stored under key, if present.
func (c *LRU[V]) Get(key sqlspec.Fingerprint) (V, bool) {
	var zero V
	if !c.enabled {
		c.stats.Misses.Add(1)
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		c.stats.Misses.Add(1)
		return zero, false
	}
	c.stats.Hits.Add(1)
	c.touch(key)
	return e.value, true
}

// Set inserts or updates the value for key, evicting the least-recently-used
// entry if the cache is at capacity. If key is already present, its value is
// replaced and it becomes most-recently-used, so when two Set calls for the
// same key race, whichever runs last under the lock wins. GetOrCompute is the
// first-insertion-wins alternative.
func (c *LRU[V]) Set(key sqlspec.Fingerprint, value V) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; exists {
		c.items[key] = &entry[V]{key: key, value: value}
		c.touch(key)
		return
	}
	if c.capacity > 0 && len(c.items) >= c.capacity {
		c.evictLocked()
	}
	c.items[key] = &entry[V]{key: key, value: value}
	c.order = append([]sqlspec.Fingerprint{key}, c.order...)
}

// GetOrCompute returns the cached value for key if present; otherwise it
// calls compute, and stores the result only if nothing was inserted for key
// in the meantime — making the first successful insertion win a concurrent
// race, as spec §5 requires ("the first insertion wins, the other's result
// is discarded").
func (c *LRU[V]) GetOrCompute(key sqlspec.Fingerprint, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return v, nil
	}
	if existing, ok := c.items[key]; ok {
		return existing.value, nil
	}
	if c.capacity > 0 && len(c.items) >= c.capacity {
		c.evictLocked()
	}
	c.items[key] = &entry[V]{key: key, value: v}
	c.order = append([]sqlspec.Fingerprint{key}, c.order...)
	return v, nil
}

// touch must be called with c.mu held; moves key to the front of order.
func (c *LRU[V]) touch(key sqlspec.Fingerprint) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append([]sqlspec.Fingerprint{key}, c.order...)
}

// evictLocked must be called with c.mu held; drops the least-recently-used
// entry (the back of order).
func (c *LRU[V]) evictLocked() {
	if len(c.order) == 0 {
		return
	}
	lru := c.order[len(c.order)-1]
	c.order = c.order[:len(c.order)-1]
	delete(c.items, lru)
	c.stats.Evictions.Add(1)
}

// Len reports the current entry count.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// StatsSnapshot returns a point-in-time snapshot of the cache's hit/miss/eviction
// counters (spec-supplemented cache metrics per SPEC_FULL.md).
func (c *LRU[V]) StatsSnapshot() Snapshot {
	c.mu.Lock()
	size := len(c.items)
	c.mu.Unlock()
	return Snapshot{
		Hits:      c.stats.Hits.Load(),
		Misses:    c.stats.Misses.Load(),
		Evictions: c.stats.Evictions.Load(),
		Size:      size,
	}
}

// Clear removes every entry, used by process shutdown (spec §4.6: "parse
// cache ... Invalidated only by process shutdown").
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[sqlspec.Fingerprint]*entry[V])
	c.order = nil
}
