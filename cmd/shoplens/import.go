package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shoplens/backend/internal/infrastructure/catalog"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Merge the configured catalog sources into one file or SQLite database",
		Long: `Load every configured catalog source, merge records by ID (later sources
override earlier ones) and write the result. Output ending in .db, .sqlite
or .sqlite3 is written to SQLite, .yaml/.yml as YAML, anything else as JSON.`,
		Example: `  shoplens import --catalog raw.json --out catalog.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}

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

			products, _, err := store.Snapshot()
			if err != nil {
				return err
			}

			if isSQLitePath(out) {
				db, err := catalog.OpenSQLite(ctx, out)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.Save(ctx, products); err != nil {
					return fmt.Errorf("save catalog: %w", err)
				}
			} else if err := catalog.WriteFile(out, products); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d products to %s\n",
				color.GreenString("Imported"), len(products), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (.json, .yaml or .db)")
	return cmd
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
