package synccmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/puzzle-museum/catalog-sync/internal/catalog"
	"github.com/puzzle-museum/catalog-sync/internal/config"
	"github.com/puzzle-museum/catalog-sync/internal/ingest"
	"github.com/puzzle-museum/catalog-sync/internal/report"
)

func executeSheets(ctx context.Context, cfg *config.Config) (*ingest.Result, error) {
	if err := cfg.RequireSheetSource(); err != nil {
		return nil, err
	}

	source, desc, err := newRowSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting metadata sync",
		"source", desc,
		"collection", cfg.Collection,
		"output", cfg.CatalogPath())

	rep := report.New(report.RunConfig{
		Pass:        "sheets",
		Source:      desc,
		Collection:  cfg.Collection,
		CatalogPath: cfg.CatalogPath(),
	})

	result, err := ingest.New(source, cfg.Collection).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("metadata sync failed: %w", err)
	}

	if err := catalog.SaveCatalog(cfg.CatalogPath(), result.Records); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}

	rep.SetIngest(result)
	printSheetsSummary(cfg, result)
	saveReport(rep, cfg.ReportDir)

	slog.Info("Metadata sync complete", "records", result.Included)
	return result, nil
}

func printSheetsSummary(cfg *config.Config, r *ingest.Result) {
	fmt.Println("\n" + rule())
	fmt.Println("METADATA SYNC SUMMARY")
	fmt.Println(rule())
	fmt.Printf("Collection: %s\n", cfg.Collection)
	fmt.Printf("Rows Read: %d\n", r.Total)
	fmt.Printf("Included: %d (%.1f%%)\n", r.Included, percent(r.Included, r.Total))
	fmt.Printf("Excluded: %d (%.1f%%)\n", r.Excluded, percent(r.Excluded, r.Total))
	if r.Duplicates > 0 {
		fmt.Printf("Duplicate Accession Numbers: %d\n", r.Duplicates)
	}
	if r.SlugCollisions > 0 {
		fmt.Printf("Slug Collisions Resolved: %d\n", r.SlugCollisions)
	}
	fmt.Printf("Catalog: %s\n", cfg.CatalogPath())
	fmt.Println(rule())
}

// saveReport writes the run report. Failure only prints a warning.
func saveReport(rep *report.Report, dir string) {
	path, err := rep.SaveToYAML(dir)
	if err != nil {
		fmt.Printf("Warning: Failed to save run report: %v\n", err)
		return
	}
	fmt.Printf("Run report saved to: %s\n", path)
}
