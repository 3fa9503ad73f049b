// Package catalog loads the product table and its aligned embedding matrix.
//
// An Index is immutable once built. Readers take a snapshot through Holder and
// keep using it for the whole request, so a concurrent reload never pairs
// records from one load with vectors from another.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// Index is the product table plus one vector per product.
type Index struct {
	records []product.Record
	vectors [][]float32
	dim     int
}

// New validates alignment and builds an Index.
func New(records []product.Record, vectors [][]float32) (*Index, error) {
	if len(records) != len(vectors) {
		return nil, fmt.Errorf("%w: %d products but %d vectors",
			domain.ErrDataLoad, len(records), len(vectors))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", domain.ErrDataLoad)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: vector 0 is empty", domain.ErrDataLoad)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d: %w",
				domain.ErrDataLoad, i, len(v), dim, domain.ErrVectorDimMismatch)
		}
	}

	recs := make([]product.Record, len(records))
	for i, r := range records {
		r.ID = i
		recs[i] = r
	}

	return &Index{records: recs, vectors: vectors, dim: dim}, nil
}

// Load reads the metadata file (JSON array of products) and the vector file
// (JSON array of float arrays). Row i of the vectors belongs to product i.
func Load(metadataPath, vectorsPath string) (*Index, error) {
	records, err := ReadProducts(metadataPath)
	if err != nil {
		return nil, err
	}

	var vectors [][]float32
	if err := readJSON(vectorsPath, &vectors); err != nil {
		return nil, fmt.Errorf("%w: vectors: %w", domain.ErrDataLoad, err)
	}

	return New(records, vectors)
}

// ReadProducts reads the metadata file alone, assigning positional IDs.
func ReadProducts(metadataPath string) ([]product.Record, error) {
	var raw []productDTO
	if err := readJSON(metadataPath, &raw); err != nil {
		return nil, fmt.Errorf("%w: metadata: %w", domain.ErrDataLoad, err)
	}

	records := make([]product.Record, len(raw))
	for i, p := range raw {
		records[i] = p.toRecord(i)
	}
	return records, nil
}

// EmbeddingText is the text a product's vector is computed from:
// title, description, categories and features separated by spaces.
func EmbeddingText(r product.Record) string {
	parts := make([]string, 0, 2+len(r.Categories)+len(r.Features))
	for _, s := range append([]string{r.Title, r.Description}, r.Categories...) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	for _, s := range r.Features {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Len returns the number of products.
func (x *Index) Len() int { return len(x.records) }

// Dim returns the vector dimension.
func (x *Index) Dim() int { return x.dim }

// Record returns the product at position i.
func (x *Index) Record(i int) product.Record { return x.records[i] }

// Vector returns the embedding of product i. Callers must not modify it.
func (x *Index) Vector(i int) []float32 { return x.vectors[i] }

// Records returns the product table. Callers must not modify it.
func (x *Index) Records() []product.Record { return x.records }

func readJSON(path string, v any) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
