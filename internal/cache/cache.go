// Package cache keeps query results keyed by logical query identity and
// drops them by entity type when that entity is written.
//
// Reads that find a fresh entry never reach the database. Concurrent misses
// on the same key share one load. A load that started before an
// invalidation of its entity is returned to its callers but not stored.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"project-launchpad/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// Entity types used as invalidation units.
const (
	Companies    = "companies"
	Projects     = "projects"
	Students     = "students"
	Applications = "applications"
)

// Key identifies a cached query: the entity it reads plus a description of
// its filter, e.g. {projects, status=open}.
type Key struct {
	Entity string
	Filter string
}

func (k Key) String() string {
	return k.Entity + ":" + k.Filter
}

// Backend stores encoded query results. Implementations must be safe for
// concurrent use.
type Backend interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte) error
	Invalidate(ctx context.Context, entity string) error
}

type Cache struct {
	backend Backend
	logger  *slog.Logger
	metrics *metrics.Metrics
	group   singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64
}

func New(backend Backend, logger *slog.Logger, m *metrics.Metrics) *Cache {
	return &Cache{
		backend:     backend,
		logger:      logger,
		metrics:     m,
		generations: make(map[string]uint64),
	}
}

// Fetch returns the cached result for key or calls load and caches what it
// returns. Backend failures are logged and fall through to load. load runs
// without the caller's cancellation, so it must bound itself.
func Fetch[T any](ctx context.Context, c *Cache, key Key, load func(context.Context) (T, error)) (T, error) {
	gen := c.generation(key.Entity)

	if raw, ok, err := c.backend.Get(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "key", key.String(), "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.metrics.RecordCacheHit(ctx, key.Entity)
			return cached, nil
		}
		c.logger.WarnContext(ctx, "cache entry undecodable, refetching", "key", key.String())
	}

	c.metrics.RecordCacheMiss(ctx, key.Entity)

	// The shared load outlives any single caller; each caller stops
	// waiting when its own context ends.
	flight := fmt.Sprintf("%s#%d", key.String(), gen)
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (interface{}, error) {
		result, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(loadCtx, key, gen, result)
		return result, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate marks every cached query of the given entity types stale.
func (c *Cache) Invalidate(ctx context.Context, entities ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entity := range entities {
		c.generations[entity]++
		if err := c.backend.Invalidate(ctx, entity); err != nil {
			c.logger.ErrorContext(ctx, "cache invalidation failed", "entity", entity, "error", err)
			continue
		}
		c.logger.DebugContext(ctx, "cache invalidated", "entity", entity)
	}
}

func (c *Cache) generation(entity string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[entity]
}

func (c *Cache) store(ctx context.Context, key Key, gen uint64, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "cache encode failed", "key", key.String(), "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[key.Entity] != gen {
		return
	}
	if err := c.backend.Set(ctx, key, raw); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key.String(), "error", err)
	}
}
