package domain

import "errors"

var (
	// ErrExpansion signals a failed synonym lookup for a single query token.
	ErrExpansion = errors.New("query expansion failed")
	// ErrEmbedding signals that the query could not be turned into a vector.
	ErrEmbedding = errors.New("embedding failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCacheUnavailable signals that the result cache backing store is unreachable.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrDataLoad signals missing or misaligned catalog files.
	ErrDataLoad = errors.New("catalog data load failed")
	// ErrVectorDimMismatch signals vectors of different dimensions.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("query cannot be empty")
)
