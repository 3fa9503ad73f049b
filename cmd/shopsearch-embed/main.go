// shopsearch-embed computes the product vector file from the metadata file.
//
// Usage:
//
//	shopsearch-embed -in data/products.json -out data/vectors.json -workers 4
//
// Embedding settings come from config/<ENV>.yaml, the same as the server,
// so the catalog and query vectors share a model. -in and -out default to
// catalog.metadata_path and catalog.vectors_path.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/app"
	"github.com/kailas-cloud/shopsearch/internal/catalog"
	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/db"
	logpkg "github.com/kailas-cloud/shopsearch/internal/logger"
)

type options struct {
	in        string
	out       string
	workers   int
	batchSize int
	useCache  bool
}

func parseFlags(cfg config.Config) options {
	o := options{}
	flag.StringVar(&o.in, "in", cfg.Catalog.MetadataPath, "product metadata JSON file")
	flag.StringVar(&o.out, "out", cfg.Catalog.VectorsPath, "vector JSON file to write")
	flag.IntVar(&o.workers, "workers", cfg.Embedding.Concurrency, "parallel embedding requests")
	flag.IntVar(&o.batchSize, "batch-size", cfg.Embedding.BatchSize, "products per embedding request")
	flag.BoolVar(&o.useCache, "cache", false, "use the configured store as embedding cache")
	flag.Parse()
	return o
}

func main() {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	opts := parseFlags(cfg)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("Embedding failed", zap.Error(err))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *zap.Logger) error {
	start := time.Now()

	var store db.KVStore
	if opts.useCache {
		s, err := app.NewStore(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	embedder, err := app.NewEmbedder(cfg.Embedding, store, cfg.Storage.KeyPrefix, logger)
	if err != nil {
		return err
	}

	records, err := catalog.ReadProducts(opts.in)
	if err != nil {
		return err
	}
	logger.Info("Embedding catalog",
		zap.String("in", opts.in),
		zap.Int("products", len(records)),
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
	)

	vectors, err := embedCatalog(ctx, embedder, records, opts.batchSize, opts.workers)
	if err != nil {
		return err
	}

	if err := writeVectors(opts.out, vectors); err != nil {
		return err
	}

	logger.Info("Catalog vectors written",
		zap.String("out", opts.out),
		zap.Int("products", len(vectors)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
