package health

import "context"

// StorePinger checks the backing store.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks the embedding provider.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CatalogSizer reports how many products are served.
type CatalogSizer interface {
	CatalogSize() int
}
