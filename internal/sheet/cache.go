package sheet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"salespulse/pkg/contracts/domain"
)

// TableLoader is the minimal loading contract the cache wraps.
type TableLoader interface {
	Load(ctx context.Context) domain.Table
}

// CachedLoader is a TTL-bounded in-memory cache in front of a Loader. Its
// only invalidation policies are time-based expiry and the explicit refresh
// override; there is no partial or incremental update. The clock is injected
// so expiry is testable.
type CachedLoader struct {
	loader TableLoader
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu        sync.Mutex
	snapshot  domain.Table
	loadedAt  time.Time
	populated bool
	hits      int64
	misses    int64
}

// CacheStats reports cache effectiveness for the health endpoint.
type CacheStats struct {
	Hits     int64     `json:"hits"`
	Misses   int64     `json:"misses"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NewCachedLoader wraps loader with a TTL cache. A nil clock uses time.Now.
func NewCachedLoader(loader TableLoader, ttl time.Duration, now func() time.Time, logger *slog.Logger) *CachedLoader {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLoader{
		loader: loader,
		ttl:    ttl,
		now:    now,
		logger: logger.With(slog.String("component", "sheet_cache")),
	}
}

// Load returns the cached snapshot when it is still fresh, otherwise loads a
// new one. force bypasses the cache unconditionally (the UI's explicit
// refresh button). Concurrent callers serialize on the cache; identical
// concurrent fetches are not deduplicated beyond that.
func (c *CachedLoader) Load(ctx context.Context, force bool) domain.Table {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && c.populated && c.now().Sub(c.loadedAt) < c.ttl {
		c.hits++
		cacheHits.Inc()
		return c.snapshot
	}

	c.misses++
	cacheMisses.Inc()
	c.snapshot = c.loader.Load(ctx)
	c.loadedAt = c.now()
	c.populated = true

	c.logger.DebugContext(ctx, "snapshot cache refreshed",
		slog.Bool("forced", force),
		slog.Int("rows", len(c.snapshot.Records)))
	return c.snapshot
}

// Invalidate drops the cached snapshot so the next Load refetches.
func (c *CachedLoader) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.populated = false
	c.snapshot = domain.Table{}
}

// Stats returns a point-in-time view of cache effectiveness.
func (c *CachedLoader) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, LoadedAt: c.loadedAt}
}
