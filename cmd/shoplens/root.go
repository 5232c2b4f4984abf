package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shoplens/backend/config"
	"github.com/shoplens/backend/internal/app"
	"github.com/shoplens/backend/internal/infrastructure/catalog"
	"github.com/shoplens/backend/internal/logging"
)

type rootOptions struct {
	catalogFile string
	logLevel    string
	noColor     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "shoplens",
		Short: "ShopLens - search a product catalog with free-text queries",
		Long: `ShopLens reads product catalogs from JSON/YAML files, HTTP endpoints and
SQLite, and answers free-text queries such as "widget price:<=60" or
"sony tv under $300" with ranked, paginated results.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			return config.LoadEnvFile()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "catalog file (JSON or YAML), overrides catalog.file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))

	return rootCmd
}

// loadConfig reads configuration, letting --catalog replace the configured file
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var overrides map[string]interface{}
	if o.catalogFile != "" {
		overrides = map[string]interface{}{"catalog.file": o.catalogFile}
	}

	cfg, err := config.LoadWithOverrides(overrides)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) newLogger(cmd *cobra.Command) zerolog.Logger {
	return logging.New(logging.Config{
		Level:   o.logLevel,
		Format:  "console",
		Output:  cmd.ErrOrStderr(),
		Service: "shoplens-cli",
	})
}

// loadCatalog builds the configured providers and loads one snapshot
func loadCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.Store, *app.Providers, error) {
	providers, err := app.NewProviders(ctx, cfg.Catalog, logger)
	if err != nil {
		return nil, nil, err
	}

	store := catalog.NewStore(providers.List, logger)
	if _, err := store.Refresh(ctx); err != nil {
		providers.Close()
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return store, providers, nil
}
