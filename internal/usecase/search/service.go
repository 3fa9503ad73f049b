// Package search orchestrates expansion, vectorization, ranking, caching and
// history for product queries.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/history"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/logger"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
	"github.com/kailas-cloud/shopsearch/internal/repository/resultcache"
	"github.com/kailas-cloud/shopsearch/internal/usecase/filter"
	"github.com/kailas-cloud/shopsearch/internal/usecase/rank"
)

// DefaultTopN is the number of results returned when the caller does not say.
const DefaultTopN = 5

// Response is the outcome of one search. Results is never nil.
type Response struct {
	Results []product.Ranked
	State   State
	Cached  bool
}

// Service answers product searches.
type Service struct {
	expander   Expander
	vectorizer Vectorizer
	catalog    Catalog
	cache      ResultCache
	history    HistoryStore

	fuzzyThreshold int
	now            func() time.Time
}

// New creates a search service.
func New(
	expander Expander,
	vectorizer Vectorizer,
	cat Catalog,
	cache ResultCache,
	hist HistoryStore,
) *Service {
	return &Service{
		expander:       expander,
		vectorizer:     vectorizer,
		catalog:        cat,
		cache:          cache,
		history:        hist,
		fuzzyThreshold: filter.DefaultThreshold,
		now:            time.Now,
	}
}

// WithFuzzyThreshold overrides the minimum fuzzy score used by Filter.
func (s *Service) WithFuzzyThreshold(threshold int) *Service {
	if threshold > 0 {
		s.fuzzyThreshold = threshold
	}
	return s
}

// WithClock overrides the time source for history timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search returns up to topN products ranked by similarity to query.
// It never fails: any error ends in StateFailed with empty results and is logged.
// Identical queries within the cache TTL are served from the cache
// regardless of topN.
func (s *Service) Search(ctx context.Context, userID, query string, topN int) (resp Response) {
	start := time.Now()
	log := logger.FromContext(ctx).With(zap.String("user_id", userID), zap.String("query", query))
	ctx, usage := domain.NewContextWithUsage(ctx)

	state := StateReceived
	defer func() {
		if r := recover(); r != nil {
			log.Error("Search panicked",
				zap.String("stage", string(state)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			resp = failed()
		}
		metrics.SearchTotal.WithLabelValues(string(resp.State)).Inc()
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	idx := s.catalog.Current()
	if idx == nil {
		log.Error("Search failed", zap.String("stage", string(state)), zap.Error(errors.New("no catalog loaded")))
		return failed()
	}

	compute := func(ctx context.Context) ([]product.Ranked, error) {
		state = StateExpanding
		terms := s.expander.Expand(ctx, query)

		state = StateVectorizing
		vec, err := s.vectorizer.Vectorize(ctx, terms)
		if err != nil {
			return nil, err
		}

		state = StateRanking
		hits, err := rank.Rank(vec, idx, topN)
		if err != nil {
			return nil, fmt.Errorf("rank: %w", err)
		}
		return rank.Ranked(hits), nil
	}

	results, outcome, err := s.cache.GetOrCompute(ctx, query, compute)
	if err != nil {
		log.Error("Search failed", zap.String("stage", string(state)), zap.Error(err))
		return failed()
	}

	state = StateCacheWrite
	if err := ctx.Err(); err != nil {
		log.Warn("Search abandoned", zap.Error(err))
		return failed()
	}
	if err := s.history.Record(ctx, userID, history.NewEntry(query, len(results), s.now())); err != nil {
		log.Warn("Failed to record search history", zap.Error(err))
	}

	state = StateResponded
	log.Debug("Search completed",
		zap.Int("results", len(results)),
		zap.String("cache", string(outcome)),
		zap.Int64("embedding_tokens", usage.Tokens()),
		zap.Int64("embedding_calls", usage.Calls()),
	)
	return Response{Results: results, State: StateResponded, Cached: outcome == resultcache.OutcomeHit}
}

// Filter narrows results by fuzzy category (any) and feature (all) matches.
func (s *Service) Filter(_ context.Context, results []product.Ranked, categories, features []string) []product.Ranked {
	return filter.Apply(results, filter.Criteria{
		Categories: categories,
		Features:   features,
		Threshold:  s.fuzzyThreshold,
	})
}

// History returns the user's recent searches, newest first.
func (s *Service) History(ctx context.Context, userID string) []history.Entry {
	return s.history.List(ctx, userID)
}

// ClearHistory forgets the user's searches.
func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	if err := s.history.Clear(ctx, userID); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Reload replaces the catalog. On error the previous catalog keeps serving.
// Cached results computed against the old catalog stay until they expire.
func (s *Service) Reload(metadataPath, vectorsPath string) (int, error) {
	idx, err := s.catalog.Reload(metadataPath, vectorsPath)
	if err != nil {
		return 0, fmt.Errorf("reload catalog: %w", err)
	}
	metrics.CatalogProducts.Set(float64(idx.Len()))
	return idx.Len(), nil
}

// CatalogSize reports how many products are being served.
func (s *Service) CatalogSize() int {
	idx := s.catalog.Current()
	if idx == nil {
		return 0
	}
	return idx.Len()
}

func failed() Response {
	return Response{Results: []product.Ranked{}, State: StateFailed}
}
