package search

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/history"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/repository/resultcache"
)

// Expander widens a query into a set of lowercase terms.
type Expander interface {
	Expand(ctx context.Context, query string) []string
}

// Vectorizer turns terms into a single query vector.
type Vectorizer interface {
	Vectorize(ctx context.Context, terms []string) ([]float32, error)
}

// Catalog publishes the product index snapshot.
type Catalog interface {
	Current() *catalog.Index
	Reload(metadataPath, vectorsPath string) (*catalog.Index, error)
}

// ResultCache serves ranked results per query.
type ResultCache interface {
	GetOrCompute(
		ctx context.Context, query string, compute resultcache.ComputeFunc,
	) ([]product.Ranked, resultcache.Outcome, error)
}

// HistoryStore keeps per-user search history.
type HistoryStore interface {
	Record(ctx context.Context, userID string, e history.Entry) error
	List(ctx context.Context, userID string) []history.Entry
	Clear(ctx context.Context, userID string) error
}
