// Package embedcache memoizes skill embeddings in a bounded LRU, optionally
// backed by a persistent second tier.
package embedcache

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// DefaultSize is the number of embeddings kept in memory.
const DefaultSize = 5000

// Embedder computes an embedding for one string.
type Embedder interface {
	Embed(ctx context.Context, text string) (model.Embedding, error)
}

// Store is a persistent second tier consulted on memory misses.
type Store interface {
	Load(ctx context.Context, skill string) (model.Embedding, bool, error)
	Save(ctx context.Context, skill string, e model.Embedding) error
}

// Cache is safe for concurrent use. Keys are exact skill strings; "Go" and
// "go" are distinct entries. Returned embeddings are shared and must not be
// modified.
type Cache struct {
	embedder Embedder
	entries  *lru.Cache[string, model.Embedding]
	flights  singleflight.Group
	store    Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a cache holding at most size embeddings. st may be nil.
func New(embedder Embedder, size int, st Store, m *metrics.Metrics, logger *slog.Logger) (*Cache, error) {
	entries, err := lru.New[string, model.Embedding](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache{
		embedder: embedder,
		entries:  entries,
		store:    st,
		metrics:  m,
		logger:   logger.With("component", "embedcache"),
	}, nil
}

// Embed returns the embedding for skill, computing it at most once per
// concurrent burst of callers.
func (c *Cache) Embed(ctx context.Context, skill string) (model.Embedding, error) {
	if e, ok := c.entries.Get(skill); ok {
		c.metrics.CacheLookup("hit")
		return e, nil
	}

	v, err, _ := c.flights.Do(skill, func() (any, error) {
		if e, ok := c.entries.Get(skill); ok {
			return e, nil
		}
		ctx := context.WithoutCancel(ctx)

		if c.store != nil {
			e, ok, err := c.store.Load(ctx, skill)
			if err != nil {
				c.logger.Warn("embedding store load failed", "skill", skill, "error", err)
			} else if ok {
				c.metrics.CacheLookup("store_hit")
				c.entries.Add(skill, e)
				return e, nil
			}
		}

		c.metrics.CacheLookup("miss")
		e, err := c.embedder.Embed(ctx, skill)
		if err != nil {
			return nil, err
		}
		c.entries.Add(skill, e)

		if c.store != nil {
			if err := c.store.Save(ctx, skill, e); err != nil {
				c.logger.Warn("embedding store save failed", "skill", skill, "error", err)
			}
		}
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.Embedding), nil
}

// Len returns the number of embeddings held in memory.
func (c *Cache) Len() int {
	return c.entries.Len()
}
