// Package cache implements the Snapshot Cache (C4): an in-process,
// capacity-bounded, TTL-aware memoization of Delta Log Reader output,
// keyed by (tableID, version), with at-most-one concurrent load per key.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/deltalog"
)

// Loader loads a snapshot for a table at an optional version. Returning
// deltalog.ErrCorruptLog or deltalog.ErrIncompleteLog prevents caching.
type Loader func(ctx context.Context) (*deltalog.Snapshot, error)

type entry struct {
	snapshot  *deltalog.Snapshot
	expiresAt time.Time
}

// SnapshotCache memoizes snapshots. Safe for concurrent use.
type SnapshotCache struct {
	mu    sync.Mutex
	store *lru
	ttl   time.Duration
	group singleflight.Group
}

// New constructs a SnapshotCache with the given entry capacity and TTL.
// ttl <= 0 disables expiry (entries only evicted by LRU capacity).
func New(capacity int, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		store: newLRU(capacity),
		ttl:   ttl,
	}
}

func cacheKey(tableID string, version int64) string {
	return fmt.Sprintf("%s:%d", tableID, version)
}

// GetOrLoad returns the cached snapshot for (tableID, version) if present
// and unexpired, otherwise calls load exactly once even under concurrent
// callers for the same key, caches the result if it's not a structural
// error, and returns it.
func (c *SnapshotCache) GetOrLoad(ctx context.Context, tableID string, version int64, load Loader) (*deltalog.Snapshot, error) {
	key := cacheKey(tableID, version)

	if snap, ok := c.lookup(key); ok {
		return snap, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if snap, ok := c.lookup(key); ok {
			return snap, nil
		}
		snap, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store_(key, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*deltalog.Snapshot), nil
}

func (c *SnapshotCache) lookup(key string) (*deltalog.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store.get(key)
	if !ok {
		return nil, false
	}
	e := v.(*entry)
	if c.ttl > 0 && time.Now().After(e.expiresAt) {
		c.store.delete(key)
		return nil, false
	}
	return e.snapshot, true
}

func (c *SnapshotCache) store_(key string, snap *deltalog.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.put(key, &entry{snapshot: snap, expiresAt: time.Now().Add(c.ttl)})
}

// InvalidateTable drops every cached version for tableID. Called on any
// catalog mutation signal affecting that table.
func (c *SnapshotCache) InvalidateTable(tableID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.deletePrefix(tableID + ":")
}

// Sweep removes all expired entries. Intended to run periodically from a
// background goroutine (see StartSweeper) so memory isn't held by dead
// entries between lookups.
func (c *SnapshotCache) Sweep() {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	var expired []string
	for key, el := range c.store.items {
		e := el.Value.(*lruEntry).value.(*entry)
		if now.After(e.expiresAt) {
			expired = append(expired, key)
		}
	}
	for _, key := range expired {
		c.store.delete(key)
	}
}

// Len returns the current number of cached entries, for diagnostics.
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.len()
}
