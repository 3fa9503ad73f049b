// Package resultcache stores ranked search results per query string.
package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// DefaultTTL is how long a cached result list lives.
const DefaultTTL = time.Hour

const keySegment = "search_cache:"

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ComputeFunc produces results on a cache miss.
type ComputeFunc func(ctx context.Context) ([]product.Ranked, error)

// Outcome reports how a lookup was served.
type Outcome string

// Lookup outcomes.
const (
	OutcomeHit    Outcome = "hit"
	OutcomeMiss   Outcome = "miss"
	OutcomeBypass Outcome = "bypass"
)

// Cache is a read-through cache of ranked results keyed by the exact query.
type Cache struct {
	store  store
	prefix string
	ttl    time.Duration
	total  *prometheus.CounterVec
	logger *zap.Logger
}

// New creates a result cache. ttl <= 0 falls back to DefaultTTL.
// total has label "result" and may be nil.
func New(s store, prefix string, ttl time.Duration, total *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: s, prefix: prefix, ttl: ttl, total: total, logger: logger}
}

// Key returns the store key for a query. The query is used verbatim.
func (c *Cache) Key(query string) string {
	return c.prefix + keySegment + query
}

// GetOrCompute returns cached results for query or computes and stores them.
// Results are returned unchanged on a hit, even if the catalog changed since.
// An unreachable store degrades to computing directly without caching.
// A compute error is returned as-is and nothing is written.
func (c *Cache) GetOrCompute(ctx context.Context, query string, compute ComputeFunc) ([]product.Ranked, Outcome, error) {
	key := c.Key(query)

	cached, err := c.get(ctx, key)
	switch {
	case err == nil:
		c.inc(OutcomeHit)
		return cached, OutcomeHit, nil
	case errors.Is(err, domain.ErrCacheUnavailable):
		c.inc(OutcomeBypass)
		c.logger.Warn("Result cache unavailable, computing directly", zap.Error(err))
		results, cerr := compute(ctx)
		return results, OutcomeBypass, cerr
	}

	c.inc(OutcomeMiss)
	results, err := compute(ctx)
	if err != nil {
		return nil, OutcomeMiss, err
	}
	if ctx.Err() == nil {
		c.put(ctx, key, results)
	}
	return results, OutcomeMiss, nil
}

// get returns db.ErrKeyNotFound on a miss (including a corrupt entry)
// and domain.ErrCacheUnavailable when the store cannot be read.
func (c *Cache) get(ctx context.Context, key string) ([]product.Ranked, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}

	var results []product.Ranked
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Warn("Dropping undecodable cached results", zap.String("key", key), zap.Error(err))
		return nil, db.ErrKeyNotFound
	}
	if results == nil {
		results = []product.Ranked{}
	}
	return results, nil
}

func (c *Cache) put(ctx context.Context, key string, results []product.Ranked) {
	if results == nil {
		results = []product.Ranked{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Warn("Failed to encode results for cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache results", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(o Outcome) {
	if c.total != nil {
		c.total.WithLabelValues(string(o)).Inc()
	}
}
