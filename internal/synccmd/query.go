package synccmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/puzzle-museum/catalog-sync/internal/compose"
	"github.com/puzzle-museum/catalog-sync/internal/config"
	"github.com/puzzle-museum/catalog-sync/internal/export"
)

// queryOptions are the browse parameters of the query command.
type queryOptions struct {
	Query  compose.Query
	Limit  int
	Format string
	Facets bool
}

func executeQuery(w io.Writer, cfg *config.Config, opts queryOptions) error {
	entries, err := compose.Load(cfg.CatalogPath(), cfg.ImagesPath())
	if err != nil {
		return err
	}

	if opts.Facets {
		return writeJSON(w, compose.BuildFacets(entries))
	}

	matched := compose.Apply(entries, opts.Query)
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	switch opts.Format {
	case "", "table":
		return writeTable(w, matched, len(entries))
	case "json":
		return writeJSON(w, matched)
	default:
		return fmt.Errorf("unknown format %q (use table or json)", opts.Format)
	}
}

func executeExport(cfg *config.Config, path string) (int, error) {
	entries, err := compose.Load(cfg.CatalogPath(), cfg.ImagesPath())
	if err != nil {
		return 0, err
	}
	if err := export.WriteParquet(path, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

var tableAlignment = []tw.Align{
	tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight,
}

func writeTable(w io.Writer, entries []compose.Entry, total int) error {
	config := tablewriter.Config{}
	config.Header.Alignment = tw.CellAlignment{PerColumn: tableAlignment}
	config.Row.Alignment = tw.CellAlignment{PerColumn: tableAlignment}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	table.Header("Accession", "Item", "Series", "Year", "Rarity", "Status", "Photos")
	for _, e := range entries {
		photos := 0
		if e.PhotoSet != nil {
			photos = e.PhotoCount
		}
		if err := table.Append(e.AccessionNo, e.Item, e.Series, e.Year, e.Rarity, e.Status, strconv.Itoa(photos)); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	noun := "puzzles"
	if len(entries) == 1 {
		noun = "puzzle"
	}
	_, err := fmt.Fprintf(w, "\n%d %s (of %d)\n", len(entries), noun, total)
	return err
}
