// Package app builds the store and embedder chain shared by the server and
// the catalog embedding tool.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/shopsearch/internal/db/redis"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/embedding/hashing"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
	"github.com/kailas-cloud/shopsearch/internal/repository/embcache"
	openaiEmb "github.com/kailas-cloud/shopsearch/internal/transport/openai"
)

// NewStore opens the configured backing store and waits until it answers.
// redis and valkey share one client: only core string and list commands are used.
func NewStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	var store db.Store
	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		store = s
	case config.DriverMemory:
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("store not ready: %w", err)
	}
	return store, nil
}

// NewEmbedder builds the provider and, when store is non-nil and a cache
// TTL is configured, wraps it in the term cache.
func NewEmbedder(
	cfg config.EmbeddingConfig, store db.KVStore, keyPrefix string, logger *zap.Logger,
) (domain.Embedder, error) {
	var base domain.Embedder
	switch cfg.Provider {
	case config.ProviderOpenAI:
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Provider,
			Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
			Logger:     logger,
		})
	case config.ProviderHashing:
		base = hashing.New(cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	if store == nil || cfg.CacheTTLSec <= 0 {
		return base, nil
	}

	// Model and dimensions are part of the key so vectors never mix.
	prefix := fmt.Sprintf("%semb_cache:%s:%s:%d:", keyPrefix, cfg.Provider, cfg.Model, cfg.Dimensions)
	return embcache.New(
		base, store, prefix,
		time.Duration(cfg.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	), nil
}
