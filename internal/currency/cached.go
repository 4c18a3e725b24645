package currency

import (
	"context"
	"log/slog"
	"time"

	"costs/internal/cache"
)

const ratesCacheKey = "rates"

// CachedSource keeps the last live table for ttl. Fallback tables are not
// stored so a recovered endpoint is picked up on the next call.
type CachedSource struct {
	src   Source
	cache *cache.LRUCache[RateTable]
}

var _ Source = (*CachedSource)(nil)

func WithCache(src Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		src:   src,
		cache: cache.NewLRUCache[RateTable](1, ttl),
	}
}

func (c *CachedSource) Fetch(ctx context.Context) (RateTable, error) {
	if table, ok := c.cache.Get(ratesCacheKey); ok {
		slog.DebugContext(ctx, "Exchange rates cache hit")
		return table, nil
	}
	table, err := c.src.Fetch(ctx)
	if err != nil {
		return RateTable{}, err
	}
	if !table.Fallback {
		c.cache.Set(ratesCacheKey, table)
	}
	return table, nil
}

// Invalidate drops the cached table.
func (c *CachedSource) Invalidate() {
	c.cache.Delete(ratesCacheKey)
}
