package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/timely-lab/timely-admin/internal/core/record"
	"github.com/timely-lab/timely-admin/internal/core/storage"
	"github.com/timely-lab/timely-admin/internal/fetch"
	"golang.org/x/sync/singleflight"
)

// Key identifies a memoized read. Limit is part of the key, so raising the
// per-collection cap is a miss and pulls a larger, fresher snapshot.
type Key struct {
	Collection string
	Limit      int
}

type entry struct {
	result    fetch.Result
	createdAt time.Time
}

// ResultCache memoizes fetch results per Key for a fixed TTL.
// Degraded results are memoized too, warning included, until they expire or are invalidated.
type ResultCache struct {
	src   fetch.Source
	ttl   time.Duration
	nowFn func() time.Time

	mu         sync.RWMutex
	entries    map[Key]entry
	generation uint64

	// Collapses concurrent misses for the same key into one fetch.
	group singleflight.Group
}

// New creates a cache in front of src. A non-positive ttl disables memoization.
func New(src fetch.Source, ttl time.Duration) *ResultCache {
	if src == nil {
		panic("cache: source must not be nil")
	}
	return &ResultCache{
		src:     src,
		ttl:     ttl,
		nowFn:   time.Now,
		entries: make(map[Key]entry),
	}
}

// Fetch makes the cache usable wherever a fetch.Source is expected.
func (c *ResultCache) Fetch(ctx context.Context, collection string, limit int) fetch.Result {
	return c.GetOrFetch(ctx, collection, limit)
}

// GetOrFetch returns the memoized result for (collection, limit) if it is younger than
// the TTL, otherwise fetches, stores and returns a fresh one.
//
// The shared fetch is detached from the caller's cancellation and bounded only by the
// source's own timeout. A caller whose context ends first gets an empty result with a
// canceled warning; the entry is still filled for everyone else.
func (c *ResultCache) GetOrFetch(ctx context.Context, collection string, limit int) fetch.Result {
	key := Key{Collection: collection, Limit: limit}

	if res, ok := c.lookup(key); ok {
		slog.Debug("[Cache] Hit", "collection", collection, "limit", limit)
		return res
	}
	if c.ttl <= 0 {
		return c.src.Fetch(ctx, collection, limit)
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	// The generation is part of the flight key so callers arriving after an
	// invalidation never join a fetch that started before it.
	flightKey := fmt.Sprintf("%d|%d|%s", gen, limit, collection)
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		if res, ok := c.lookup(key); ok {
			return res, nil
		}

		slog.Debug("[Cache] Miss, fetching", "collection", collection, "limit", limit)
		res := c.src.Fetch(flightCtx, collection, limit)

		if memoizable(res) {
			c.mu.Lock()
			if c.generation == gen {
				c.entries[key] = entry{result: res, createdAt: c.nowFn()}
			}
			c.mu.Unlock()
		}

		return res, nil
	})

	select {
	case out := <-ch:
		return out.Val.(fetch.Result)
	case <-ctx.Done():
		slog.Debug("[Cache] Caller gave up before fetch completed", "collection", collection, "limit", limit)
		return fetch.Result{
			Snapshot: record.Empty(collection, limit, c.nowFn()),
			Warning: &fetch.Warning{
				Collection: collection,
				Kind:       storage.FailureCanceled,
				Message:    ctx.Err().Error(),
			},
		}
	}
}

// memoizable rejects results that reflect a caller going away rather than the store.
func memoizable(res fetch.Result) bool {
	return res.Warning == nil || res.Warning.Kind != storage.FailureCanceled
}

// InvalidateAll drops every entry regardless of key. Fetches already in flight
// will not repopulate the cache.
func (c *ResultCache) InvalidateAll() {
	c.mu.Lock()
	dropped := len(c.entries)
	c.entries = make(map[Key]entry)
	c.generation++
	c.mu.Unlock()

	slog.Info("[Cache] Invalidated", "entries_dropped", dropped)
}

// Len returns the number of stored entries, expired ones included.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ResultCache) lookup(key Key) (fetch.Result, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.nowFn().Sub(e.createdAt) >= c.ttl {
		return fetch.Result{}, false
	}
	return e.result, true
}
