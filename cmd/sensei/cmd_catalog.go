package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/dsa-sensei/internal/store"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export or import knowledge catalogs",
	}
	cmd.AddCommand(newCatalogExportCmd(), newCatalogImportCmd())
	return cmd
}

func newCatalogExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as YAML",
		Long: `Write the active catalog (embedded default, --catalog or --catalog-db)
as YAML, to stdout or to a file.

Examples:
  sensei catalog export > catalog.yaml
  sensei catalog export --catalog-db catalog.db -o catalog.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if output == "" {
				data, err := a.graph.EncodeYAML()
				if err != nil {
					return fmt.Errorf("encode catalog: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := store.NewFileStore(output).Save(cmd.Context(), a.graph.Catalog()); err != nil {
				return fmt.Errorf("export catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (default stdout)")
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Copy a catalog into a YAML file or SQLite database",
		Long: `Copy a catalog from a YAML file or SQLite database into another one.
Files ending in .db, .sqlite or .sqlite3 are SQLite databases; anything
else is YAML. The source "default" names the embedded catalog.

Examples:
  sensei catalog import default --to ~/.sensei/catalog.db
  sensei catalog import my-catalog.yaml --to catalog.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetString("to")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if to == "" {
				return fmt.Errorf("--to is required")
			}

			concepts, problems, err := importCatalog(cmd.Context(), args[0], to)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"status":      "imported",
					"destination": to,
					"concepts":    concepts,
					"problems":    problems,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d concepts and %d problems into %s\n", concepts, problems, to)
			return nil
		},
	}

	cmd.Flags().String("to", "", "Destination YAML file or SQLite database")
	return cmd
}

// importCatalog copies src into dst and reports what dst now holds.
func importCatalog(ctx context.Context, src, dst string) (concepts, problems int, err error) {
	from, err := storeForPath(src)
	if err != nil {
		return 0, 0, err
	}
	defer from.Close()

	to, err := storeForPath(dst)
	if err != nil {
		return 0, 0, err
	}
	defer to.Close()

	if err := store.Copy(ctx, to, from); err != nil {
		return 0, 0, fmt.Errorf("import catalog: %w", err)
	}

	g, err := store.LoadGraph(ctx, to)
	if err != nil {
		return 0, 0, fmt.Errorf("verify import: %w", err)
	}
	return len(g.Concepts()), len(g.Problems()), nil
}

// storeForPath picks a catalog store by file extension.
func storeForPath(path string) (store.CatalogStore, error) {
	if path == "default" {
		return store.NewDefaultStore()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return store.NewSQLiteStore(path)
	}
	return store.NewFileStore(path), nil
}
