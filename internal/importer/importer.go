// Package importer ingests crowdsourced product price files (CSV or XLSX)
// into the catalog.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ProductRow is one parsed price row from an import file.
type ProductRow struct {
	Name         string
	StoreID      int64
	Price        float64
	Availability string
}

// RowError records a row that could not be parsed.
type RowError struct {
	Row    int
	Reason string
}

// ParseResult holds the parsed rows and per-row failures of one file.
type ParseResult struct {
	Rows   []ProductRow
	Errors []RowError
}

// ProductWriter is the catalog write surface the importer needs.
type ProductWriter interface {
	UpsertProduct(ctx context.Context, name string, storeID int64, price float64) error
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer loads product price files into the catalog.
type Importer struct {
	writer ProductWriter
	logger zerolog.Logger
}

// New creates an importer writing into the given catalog.
func New(writer ProductWriter) *Importer {
	return &Importer{
		writer: writer,
		logger: log.With().Str("component", "importer").Logger(),
	}
}

// ImportFile parses path by extension and upserts its rows. Rows explicitly
// marked out of stock are skipped, matching the original crowdsourced feed
// semantics; rows with no availability column are treated as in stock.
func (i *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read import file: %w", err)
	}

	var parsed *ParseResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		parsed, err = ParseCSV(content)
	case ".xlsx":
		parsed, err = ParseXLSX(content)
	default:
		return Result{}, fmt.Errorf("unsupported import format %q", filepath.Ext(path))
	}
	if err != nil {
		return Result{}, err
	}

	return i.importRows(ctx, parsed)
}

func (i *Importer) importRows(ctx context.Context, parsed *ParseResult) (Result, error) {
	result := Result{Failed: len(parsed.Errors)}
	for _, rowErr := range parsed.Errors {
		i.logger.Warn().Int("row", rowErr.Row).Str("reason", rowErr.Reason).Msg("Skipping invalid row")
	}

	for _, row := range parsed.Rows {
		if !inStock(row.Availability) {
			result.Skipped++
			continue
		}
		if err := i.writer.UpsertProduct(ctx, row.Name, row.StoreID, row.Price); err != nil {
			return result, fmt.Errorf("import row %q: %w", row.Name, err)
		}
		result.Imported++
	}

	i.logger.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Import complete")
	return result, nil
}

func inStock(availability string) bool {
	a := strings.ToLower(strings.TrimSpace(availability))
	return a == "" || a == "in stock"
}
