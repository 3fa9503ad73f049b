package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/app"
	"github.com/kailas-cloud/shopsearch/internal/catalog"
	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	logpkg "github.com/kailas-cloud/shopsearch/internal/logger"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
	histrepo "github.com/kailas-cloud/shopsearch/internal/repository/history"
	"github.com/kailas-cloud/shopsearch/internal/repository/resultcache"
	"github.com/kailas-cloud/shopsearch/internal/repository/thesaurus"
	chiTransport "github.com/kailas-cloud/shopsearch/internal/transport/chi"
	"github.com/kailas-cloud/shopsearch/internal/usecase/expand"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
	"github.com/kailas-cloud/shopsearch/internal/usecase/vectorize"
	"github.com/kailas-cloud/shopsearch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting shopsearch API server",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	metrics.Register()

	ctx := context.Background()
	store, err := app.NewStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Connected to store")

	embedder, err := app.NewEmbedder(cfg.Embedding, store, cfg.Storage.KeyPrefix, logger)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}

	var lexicon expand.LexicalResource
	if cfg.Thesaurus.Path != "" {
		th, err := thesaurus.Load(cfg.Thesaurus.Path)
		if err != nil {
			logger.Fatal("Failed to load thesaurus", zap.String("path", cfg.Thesaurus.Path), zap.Error(err))
		}
		lexicon = th
		logger.Info("Thesaurus loaded", zap.Int("words", th.Len()))
	}

	idx, err := catalog.Load(cfg.Catalog.MetadataPath, cfg.Catalog.VectorsPath)
	if err != nil {
		logger.Fatal("Failed to load catalog",
			zap.String("metadata", cfg.Catalog.MetadataPath),
			zap.String("vectors", cfg.Catalog.VectorsPath),
			zap.Error(err),
		)
	}
	metrics.CatalogProducts.Set(float64(idx.Len()))
	logger.Info("Catalog loaded", zap.Int("products", idx.Len()), zap.Int("dimensions", idx.Dim()))

	searchSvc := searchuc.New(
		expand.New(lexicon, logger),
		vectorize.New(embedder).WithConcurrency(cfg.Embedding.Concurrency),
		catalog.NewHolder(idx),
		resultcache.New(store, cfg.Storage.KeyPrefix,
			time.Duration(cfg.Search.ResultTTLSec)*time.Second, metrics.ResultCacheTotal, logger),
		histrepo.New(store, cfg.Storage.KeyPrefix, cfg.Search.HistoryLimit, logger),
	).WithFuzzyThreshold(cfg.Search.FuzzyThreshold)

	var embeddingChecker healthuc.EmbeddingChecker
	if hc, ok := embedder.(domain.HealthChecker); ok {
		embeddingChecker = hc
	}
	healthSvc := healthuc.New(store, embeddingChecker, searchSvc)

	server := chiTransport.NewServer(searchSvc, healthSvc, cfg.Search.DefaultTopN)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:        cfg.Auth.APIKeys,
		RequestTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
		Logger:         logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// SIGHUP reloads the catalog; SIGINT/SIGTERM shut down.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig != syscall.SIGHUP {
			logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
			break
		}
		n, err := searchSvc.Reload(cfg.Catalog.MetadataPath, cfg.Catalog.VectorsPath)
		if err != nil {
			logger.Error("Catalog reload failed, keeping current catalog", zap.Error(err))
			continue
		}
		logger.Info("Catalog reloaded", zap.Int("products", n))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
