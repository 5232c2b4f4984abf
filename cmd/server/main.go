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

	"github.com/rs/zerolog"

	"github.com/shoplens/backend/config"
	"github.com/shoplens/backend/internal/app"
	httpDelivery "github.com/shoplens/backend/internal/delivery/http"
	"github.com/shoplens/backend/internal/infrastructure/catalog"
	"github.com/shoplens/backend/internal/logging"
	"github.com/shoplens/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shoplens: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win
	if err := config.LoadEnvFile(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "shoplens-backend",
	})

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache_type", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting ShopLens backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	searchCache, closeCache, err := app.NewCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer closeCache()

	providers, err := app.NewProviders(ctx, cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog providers: %w", err)
	}
	defer providers.Close()

	store := catalog.NewStore(providers.List, logger)
	if _, err := store.Refresh(ctx); err != nil {
		// The server still starts; search answers 503 until a refresh succeeds
		logger.Error().Err(err).Msg("initial catalog load failed")
	}
	go store.Run(ctx, cfg.Catalog.RefreshInterval)

	// Initialize usecase layer
	engine, err := app.NewEngine(cfg.Search, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize query engine: %w", err)
	}

	logger.Info().
		Bool("fuzzy", cfg.Search.FuzzyEnabled).
		Str("algorithm", cfg.Search.FuzzyAlgorithm).
		Float64("threshold", cfg.Search.FuzzyThreshold).
		Int("page_size", cfg.Search.PageSize).
		Msg("query engine configured")

	searchService := usecase.NewSearchService(store, searchCache, engine,
		usecase.SearchServiceConfig{CacheTTL: cfg.Cache.TTL}, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, store, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serve(ctx, server, logger)
}

// serve runs server until ctx is canceled, then shuts it down gracefully
func serve(ctx context.Context, server *http.Server, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
