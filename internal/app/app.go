// Package app wires configuration into the infrastructure and usecase
// components shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/shoplens/backend/config"
	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/infrastructure/cache"
	"github.com/shoplens/backend/internal/infrastructure/catalog"
	"github.com/shoplens/backend/internal/infrastructure/fuzzy"
	"github.com/shoplens/backend/internal/usecase"
)

// Providers holds the configured catalog sources
type Providers struct {
	List   []domain.CatalogProvider
	SQLite *catalog.SQLiteProvider // nil unless catalog.sqlite_path is set
}

// Close releases provider resources
func (p *Providers) Close() error {
	if p.SQLite != nil {
		return p.SQLite.Close()
	}
	return nil
}

// NewProviders builds a provider per configured source, in the order
// file, url, sqlite. Later sources override earlier ones on refresh.
func NewProviders(ctx context.Context, cfg config.CatalogConfig, logger zerolog.Logger) (*Providers, error) {
	mapper := catalog.Mapper{URLTemplate: cfg.URLTemplate}
	providers := &Providers{}

	if cfg.File != "" {
		providers.List = append(providers.List, catalog.NewFileProvider(cfg.File, mapper))
	}

	if cfg.URL != "" {
		providers.List = append(providers.List, catalog.NewHTTPProvider(catalog.HTTPConfig{
			URL:       cfg.URL,
			Token:     cfg.Token,
			Timeout:   cfg.Timeout,
			RateLimit: rate.Limit(cfg.RateLimit),
		}, mapper, logger))
	}

	if cfg.SQLitePath != "" {
		sqlite, err := catalog.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		providers.SQLite = sqlite
		providers.List = append(providers.List, sqlite)
	}

	if len(providers.List) == 0 {
		return nil, fmt.Errorf("%w: no catalog source configured", domain.ErrCatalogUnavailable)
	}
	return providers, nil
}

// NewCache returns the configured cache and a function that releases it
func NewCache(cfg config.CacheConfig) (domain.CacheRepository, func() error, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{URL: cfg.RedisURL})
		if err != nil {
			return nil, nil, err
		}
		return redisCache, redisCache.Close, nil
	case "memory", "":
		return cache.NewMemoryCache(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown cache type %q", cfg.Type)
}

// NewEngine builds the query engine, with fuzzy candidates when enabled
func NewEngine(cfg config.SearchConfig, logger zerolog.Logger) (*usecase.Engine, error) {
	var matcher domain.FuzzyMatcher
	if cfg.FuzzyEnabled {
		m, err := fuzzy.New(cfg.FuzzyAlgorithm)
		if err != nil {
			return nil, err
		}
		matcher = m
	}

	return usecase.NewEngine(matcher, usecase.EngineConfig{
		FuzzyThreshold:  cfg.FuzzyThreshold,
		DefaultPageSize: cfg.PageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}, logger), nil
}
