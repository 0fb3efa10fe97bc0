package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cartwise/grocery-service/internal/catalog"
	"github.com/cartwise/grocery-service/internal/database"
	"github.com/cartwise/grocery-service/internal/importer"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Bulk-import product prices from CSV or XLSX files",
	Long: `Parse one or more product price files and upsert their rows into the
catalog. CSV files may use comma, semicolon, tab, or pipe delimiters and
decimal-comma prices; XLSX files are read from their first sheet. Rows marked
out of stock are skipped.`,
	Example: `  grocery-service import prices.csv
  grocery-service import stores/*.xlsx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	repo := catalog.NewRepository(database.Pool())
	imp := importer.New(repo)

	type fileResult struct {
		File string
		importer.Result
		Err error
	}

	results := make([]fileResult, 0, len(args))
	for _, path := range args {
		logger.Info().Str("file", path).Msg("Importing")
		result, err := imp.ImportFile(ctx, path)
		if err != nil {
			logger.Error().Str("file", path).Err(err).Msg("Import failed")
		}
		results = append(results, fileResult{File: path, Result: result, Err: err})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tSTATUS\tIMPORTED\tSKIPPED\tFAILED")
	fmt.Fprintln(w, "----\t------\t--------\t-------\t------")
	for _, r := range results {
		status := "SUCCESS"
		if r.Err != nil {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", r.File, status, r.Imported, r.Skipped, r.Failed)
	}
	w.Flush()

	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("some imports failed")
		}
	}
	return nil
}
