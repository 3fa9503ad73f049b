// Package hashing is an offline embedding provider based on feature hashing.
//
// Each lowercase word is hashed into one of Dim buckets with a hash-derived
// sign, and the result is L2-normalized. Texts sharing words get positive
// cosine similarity; it carries no semantics beyond word overlap. Useful for
// local runs without a model endpoint and for deterministic tests.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain"
)

// DefaultDim is used when no dimension is configured.
const DefaultDim = 256

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Embedder is a deterministic, stateless domain.Embedder.
type Embedder struct {
	dim int
}

// New creates a hashing embedder with the given dimension.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Embedder{dim: dim}
}

// Dim returns the vector dimension.
func (e *Embedder) Dim() int { return e.dim }

// Embed implements domain.Embedder. Text without words is an error.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("hashing embed: %w", err)
	}

	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return domain.EmbeddingResult{}, fmt.Errorf("no words in input: %w", domain.ErrEmbeddingProviderError)
	}

	vec := make([]float64, e.dim)
	for _, w := range words {
		h := fnv.New64a()
		_, _ = h.Write([]byte(w))
		sum := h.Sum64()
		bucket := int(sum % uint64(e.dim))
		if sum>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float32, e.dim)
	if norm > 0 {
		for i, x := range vec {
			out[i] = float32(x / norm)
		}
	}
	return domain.EmbeddingResult{Embedding: out}, nil
}
