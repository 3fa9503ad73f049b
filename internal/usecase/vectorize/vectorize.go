// Package vectorize turns a set of query terms into one query vector.
package vectorize

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/shopsearch/internal/domain"
)

// DefaultConcurrency bounds in-flight embedding calls per query.
const DefaultConcurrency = 8

// Embedder vectorizes a single text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Vectorizer embeds every term and averages the vectors.
type Vectorizer struct {
	embed       Embedder
	concurrency int
}

// New creates a Vectorizer.
func New(embed Embedder) *Vectorizer {
	return &Vectorizer{embed: embed, concurrency: DefaultConcurrency}
}

// WithConcurrency sets how many terms are embedded at once.
func (v *Vectorizer) WithConcurrency(n int) *Vectorizer {
	if n > 0 {
		v.concurrency = n
	}
	return v
}

// Vectorize returns the element-wise mean of the terms' embeddings.
// Any failure, including an empty term set, is reported as domain.ErrEmbedding.
// When ctx is cancelled, outstanding calls are abandoned.
func (v *Vectorizer) Vectorize(ctx context.Context, terms []string) ([]float32, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: no terms to embed", domain.ErrEmbedding)
	}

	vectors := make([][]float32, len(terms))
	usage := domain.UsageFromContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for i, term := range terms {
		g.Go(func() error {
			res, err := v.embed.Embed(gctx, term)
			if err != nil {
				return fmt.Errorf("embed term %q: %w", term, err)
			}
			usage.Add(res.TotalTokens)
			vectors[i] = res.Embedding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	return mean(vectors)
}

// mean averages vectors in slice order so equal inputs give identical bits.
func mean(vectors [][]float32) ([]float32, error) {
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty embedding", domain.ErrEmbedding)
	}

	sum := make([]float64, dim)
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: term %d has %d dimensions, want %d: %w",
				domain.ErrEmbedding, i, len(vec), dim, domain.ErrVectorDimMismatch)
		}
		for j, x := range vec {
			sum[j] += float64(x)
		}
	}

	out := make([]float32, dim)
	n := float64(len(vectors))
	for j, s := range sum {
		out[j] = float32(s / n)
	}
	return out, nil
}
