package domain

import (
	"context"
	"fmt"
)

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the vector and the tokens the provider billed for it.
type EmbeddingResult struct {
	Embedding   []float32
	TotalTokens int
}

// BatchEmbedder vectorizes several texts in one provider call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedAll uses BatchEmbed when e supports it and one Embed call per text otherwise.
func EmbedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	if be, ok := e.(BatchEmbedder); ok {
		vecs, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("batch embed: %w", err)
		}
		return vecs, nil
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		res, err := e.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("embed [%d]: %w", i, err)
		}
		out[i] = res.Embedding
	}
	return out, nil
}
