package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/timely-lab/timely-admin/internal/core/record"
	"github.com/timely-lab/timely-admin/internal/core/storage"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a fetch when the caller configures none.
const DefaultTimeout = 20 * time.Second

// Warning reports a collection that could not be read. The dashboard keeps rendering
// with an empty snapshot for that collection.
type Warning struct {
	Collection string              `json:"collection"`
	Kind       storage.FailureKind `json:"kind"`
	Message    string              `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("could not load %q (%s): %s", w.Collection, w.Kind, w.Message)
}

// Result is the outcome of one bounded read. Warning is nil on success.
type Result struct {
	Snapshot record.Snapshot
	Warning  *Warning
}

// Source is anything that yields a Result for (collection, limit).
// Both Fetcher and the result cache satisfy it.
type Source interface {
	Fetch(ctx context.Context, collection string, limit int) Result
}

// Fetcher performs bounded, timeout-limited reads and never fails outward.
type Fetcher struct {
	store   storage.DocumentStore
	timeout time.Duration
	nowFn   func() time.Time
}

// NewFetcher creates a fetcher. A non-positive timeout falls back to DefaultTimeout.
func NewFetcher(store storage.DocumentStore, timeout time.Duration) *Fetcher {
	if store == nil {
		panic("fetch: store must not be nil")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		store:   store,
		timeout: timeout,
		nowFn:   time.Now,
	}
}

// Timeout returns the configured per-request bound.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch reads up to limit records of collection using the configured timeout.
func (f *Fetcher) Fetch(ctx context.Context, collection string, limit int) Result {
	return f.FetchWithTimeout(ctx, collection, limit, f.timeout)
}

// FetchWithTimeout reads up to limit records of collection within timeout.
// Any store failure yields an empty snapshot plus a Warning naming the collection.
func (f *Fetcher) FetchWithTimeout(ctx context.Context, collection string, limit int, timeout time.Duration) Result {
	if limit <= 0 {
		return Result{Snapshot: record.Empty(collection, 0, f.nowFn())}
	}
	if timeout <= 0 {
		timeout = f.timeout
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := f.nowFn()
	docs, err := f.store.Find(fetchCtx, collection, limit)
	if err == nil && fetchCtx.Err() != nil {
		// Backend ignored the context; the data may be partial.
		if errors.Is(fetchCtx.Err(), context.Canceled) {
			err = fmt.Errorf("find %s: %w", collection, fetchCtx.Err())
		} else {
			err = fmt.Errorf("%w: %v", storage.ErrTimeout, fetchCtx.Err())
		}
	}
	if err != nil {
		w := &Warning{
			Collection: collection,
			Kind:       storage.Classify(err),
			Message:    err.Error(),
		}
		slog.Warn("[Fetch] Could not load collection, continuing with empty data",
			"collection", collection,
			"limit", limit,
			"kind", w.Kind,
			"error", err,
		)
		return Result{Snapshot: record.Empty(collection, limit, start), Warning: w}
	}

	records := make([]record.Record, 0, minInt(len(docs), limit))
	for i, doc := range docs {
		if i >= limit {
			slog.Warn("[Fetch] Store returned more documents than requested, truncating",
				"collection", collection,
				"limit", limit,
				"returned", len(docs),
			)
			break
		}
		records = append(records, record.New(doc.ID, doc.Fields))
	}

	slog.Debug("[Fetch] Collection loaded",
		"collection", collection,
		"limit", limit,
		"count", len(records),
		"duration", f.nowFn().Sub(start),
	)

	return Result{Snapshot: record.NewSnapshot(collection, limit, start, records)}
}

// FetchAll reads every collection concurrently through the fetcher.
func (f *Fetcher) FetchAll(ctx context.Context, collections []string, limit int) map[string]Result {
	return All(ctx, f, collections, limit)
}

// All reads every collection concurrently from src. One collection's failure never
// affects its siblings: each failure is already folded into its own Result.
func All(ctx context.Context, src Source, collections []string, limit int) map[string]Result {
	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(collections))
		g       errgroup.Group
	)

	for _, name := range collections {
		g.Go(func() error {
			res := src.Fetch(ctx, name, limit)
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Warnings collects the non-nil warnings of results in collection order.
func Warnings(collections []string, results map[string]Result) []Warning {
	var out []Warning
	for _, name := range collections {
		if res, ok := results[name]; ok && res.Warning != nil {
			out = append(out, *res.Warning)
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
