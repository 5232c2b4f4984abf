package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shoplens/backend/internal/app"
	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/usecase"
)

type searchOptions struct {
	sort     string
	page     int
	pageSize int
	json     bool
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the catalog",
		Long: `Search the catalog with a free-text query. Supports id:<value>,
price:<op><number>, price:<min>-<max> and plain terms, plus natural
phrases such as "under $300" or "cheapest".`,
		Example: `  shoplens search widget price:<=60
  shoplens search cheapest tv under $300
  shoplens search --sort price_asc --page 2 kettle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger := root.newLogger(cmd)

			store, providers, err := loadCatalog(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer providers.Close()

			engine, err := app.NewEngine(cfg.Search, logger)
			if err != nil {
				return err
			}

			service := usecase.NewSearchService(store, nil, engine, usecase.SearchServiceConfig{}, logger)
			result, err := service.Search(ctx, &domain.SearchRequest{
				Query:    strings.Join(args, " "),
				Sort:     domain.SortKey(opts.sort),
				Page:     opts.page,
				PageSize: opts.pageSize,
			})
			if err != nil {
				return err
			}

			if opts.json {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}
			printSearchResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.sort, "sort", "", "sort key: name, price_asc, price_desc or id")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "results per page (0 uses the configured default)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}
