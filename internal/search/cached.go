package search

import (
	"context"
	"log/slog"

	"github.com/rsilvagit/go-jobboard/internal/model"
)

// ResultCache stores result pages by request key.
type ResultCache interface {
	Get(ctx context.Context, key string) (*model.ResultPage, bool)
	Set(ctx context.Context, key string, page *model.ResultPage) error
}

// Cached serves repeated requests from a ResultCache and only reaches the
// wrapped Searcher on a miss. Errors are never cached.
type Cached struct {
	next   Searcher
	cache  ResultCache
	logger *slog.Logger
}

// NewCached wraps next with cache.
func NewCached(next Searcher, cache ResultCache, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, cache: cache, logger: logger}
}

func (c *Cached) Search(ctx context.Context, r Request) (*model.ResultPage, error) {
	key := r.CacheKey()
	if page, ok := c.cache.Get(ctx, key); ok {
		c.logger.Debug("search cache hit", "key", key)
		return page, nil
	}

	page, err := c.next.Search(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, page); err != nil {
		c.logger.Warn("search cache write failed", "key", key, "err", err)
	}
	return page, nil
}
