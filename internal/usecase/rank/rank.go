// Package rank scores catalog products against a query vector.
package rank

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// Index is the read-only view of the catalog the ranker needs.
type Index interface {
	Len() int
	Dim() int
	Record(i int) product.Record
	Vector(i int) []float32
}

// Hit is one scored product.
type Hit struct {
	Record     product.Record
	Similarity float64
}

// Rank returns the topN products by cosine similarity, highest first.
// Equal scores keep catalog order. topN <= 0 yields no hits.
func Rank(query []float32, idx Index, topN int) ([]Hit, error) {
	if topN <= 0 {
		return []Hit{}, nil
	}
	if len(query) != idx.Dim() {
		return nil, fmt.Errorf("query has %d dimensions, catalog has %d: %w",
			len(query), idx.Dim(), domain.ErrVectorDimMismatch)
	}

	qNorm := norm(query)

	type scored struct {
		pos   int
		score float64
	}
	all := make([]scored, idx.Len())
	for i := range all {
		all[i] = scored{pos: i, score: cosine(query, qNorm, idx.Vector(i))}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].pos < all[j].pos
	})

	n := min(topN, len(all))
	hits := make([]Hit, n)
	for i := range n {
		hits[i] = Hit{Record: idx.Record(all[i].pos), Similarity: all[i].score}
	}
	return hits, nil
}

// Ranked converts hits into result rows.
func Ranked(hits []Hit) []product.Ranked {
	out := make([]product.Ranked, len(hits))
	for i, h := range hits {
		out[i] = product.NewRanked(h.Record, h.Similarity)
	}
	return out
}

// cosine returns the cosine similarity of a and b given a's precomputed norm.
// A zero vector on either side scores 0.
func cosine(a []float32, aNorm float64, b []float32) float64 {
	if aNorm == 0 {
		return 0
	}
	var dot, bb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		bb += float64(b[i]) * float64(b[i])
	}
	if bb == 0 {
		return 0
	}
	sim := dot / (aNorm * math.Sqrt(bb))
	// clamp rounding drift so scores stay in [-1, 1]
	return math.Max(-1, math.Min(1, sim))
}

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}
