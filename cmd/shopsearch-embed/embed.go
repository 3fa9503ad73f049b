package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/shopsearch/internal/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// embedCatalog returns one vector per record, in record order.
// Records are sent in batches of batchSize with up to workers batches in flight.
func embedCatalog(
	ctx context.Context, e domain.Embedder, records []product.Record, batchSize, workers int,
) ([][]float32, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no products to embed", domain.ErrDataLoad)
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if workers <= 0 {
		workers = 1
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = catalog.EmbeddingText(r)
		if texts[i] == "" {
			return nil, fmt.Errorf("%w: product %d has no text", domain.ErrDataLoad, i)
		}
	}

	vectors := make([][]float32, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(texts); lo += batchSize {
		hi := min(lo+batchSize, len(texts))
		g.Go(func() error {
			batch, err := domain.EmbedAll(gctx, e, texts[lo:hi])
			if err != nil {
				return fmt.Errorf("embed products %d-%d: %w", lo, hi-1, err)
			}
			copy(vectors[lo:hi], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim || dim == 0 {
			return nil, fmt.Errorf("product %d: %w", i, domain.ErrVectorDimMismatch)
		}
	}
	return vectors, nil
}

// writeVectors writes the matrix next to path and renames it into place,
// so a running server reloading on SIGHUP never reads a partial file.
func writeVectors(path string, vectors [][]float32) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".vectors-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := json.NewEncoder(tmp).Encode(vectors); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode vectors: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
