package synccmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/puzzle-museum/catalog-sync/internal/catalog"
	"github.com/puzzle-museum/catalog-sync/internal/config"
	"github.com/puzzle-museum/catalog-sync/internal/photosync"
	"github.com/puzzle-museum/catalog-sync/internal/report"
)

// executePhotos runs the photo pass. When records is nil the catalog
// artifact is read from disk.
func executePhotos(ctx context.Context, cfg *config.Config, records []catalog.Record) (photosync.Summary, error) {
	if err := cfg.RequirePhotoSource(); err != nil {
		return photosync.Summary{}, err
	}

	if records == nil {
		loaded, err := catalog.LoadCatalog(cfg.CatalogPath())
		if err != nil {
			return photosync.Summary{}, fmt.Errorf("failed to read catalog (run \"catalog-sync sheets\" first): %w", err)
		}
		records = loaded
	}

	resolver, desc, err := newResolver(ctx, cfg)
	if err != nil {
		return photosync.Summary{}, err
	}
	if err := resolver.Check(ctx); err != nil {
		return photosync.Summary{}, fmt.Errorf("photo store is not reachable: %w", err)
	}

	slog.Info("Starting photo sync",
		"store", desc,
		"records", len(records),
		"pacing", cfg.PacingDescription(),
		"box_scans", cfg.BoxScans)

	rep := report.New(report.RunConfig{
		Pass:        "photos",
		Source:      cfg.CatalogPath(),
		PhotoRoot:   desc,
		ImagesPath:  cfg.ImagesPath(),
		Pacing:      cfg.PacingDescription(),
		BoxScans:    cfg.BoxScans,
		CatalogPath: cfg.CatalogPath(),
	})

	opts := []photosync.Option{
		photosync.WithPacer(cfg.Pacer()),
		photosync.WithObserver(rep.Observe),
	}
	if cfg.BoxScans {
		opts = append(opts, photosync.WithBoxScans(resolver))
	}

	images, summary, err := photosync.New(resolver, opts...).Run(ctx, records)
	if err != nil {
		return summary, err
	}

	if err := catalog.SaveImages(cfg.ImagesPath(), images); err != nil {
		return summary, fmt.Errorf("failed to save images: %w", err)
	}

	rep.SetPhotos(summary)
	printPhotosSummary(cfg, summary)
	saveReport(rep, cfg.ReportDir)

	slog.Info("Photo sync complete", "resolved", summary.Resolved)
	return summary, nil
}

func printPhotosSummary(cfg *config.Config, s photosync.Summary) {
	expected := s.Resolved + s.NotFound

	fmt.Println("\n" + rule())
	fmt.Println("PHOTO SYNC SUMMARY")
	fmt.Println(rule())
	fmt.Printf("Total Records: %d\n", s.Total)
	fmt.Printf("With Photos: %d (%.1f%% of expected)\n", s.Resolved, percent(s.Resolved, expected))
	fmt.Printf("Expected But Not Found: %d\n", s.NotFound)
	if s.Errors > 0 {
		fmt.Printf("  of which lookup errors: %d\n", s.Errors)
	}
	fmt.Printf("Skipped (no photo flag): %d\n", s.Skipped)
	if cfg.BoxScans {
		fmt.Printf("Box Scans: %d\n", s.BoxScans)
	}
	fmt.Printf("Images: %s\n", cfg.ImagesPath())
	fmt.Println(rule())
}
