// Package ingest turns the raw catalog spreadsheet into the list of records
// for one sub-collection.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/puzzle-museum/catalog-sync/internal/catalog"
	"github.com/puzzle-museum/catalog-sync/internal/tabular"
)

// DefaultCollection is the sub-collection published by the catalog site.
const DefaultCollection = "Cube Puzzles"

// Result holds the filtered records and ingestion counters.
type Result struct {
	Records []catalog.Record

	// Total counts data rows, excluding the header row.
	Total    int
	Included int
	// Excluded is Total - Included, duplicates included.
	Excluded int

	Duplicates     int
	SlugCollisions int
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithTables replaces the built-in code tables.
func WithTables(tables catalog.Tables) Option {
	return func(i *Ingester) {
		i.tables = tables
	}
}

// Ingester fetches and normalizes the spreadsheet.
type Ingester struct {
	source     tabular.RowSource
	collection string
	tables     catalog.Tables
}

// New creates an ingester that keeps only records of collection.
func New(source tabular.RowSource, collection string, opts ...Option) *Ingester {
	if collection == "" {
		collection = DefaultCollection
	}
	i := &Ingester{
		source:     source,
		collection: collection,
		tables:     catalog.DefaultTables(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run fetches the range once and maps every data row. A fetch failure is
// returned; an empty sheet yields an empty result.
func (i *Ingester) Run(ctx context.Context) (*Result, error) {
	rows, err := i.source.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows: %w", err)
	}

	result := &Result{Records: []catalog.Record{}}
	if len(rows) == 0 {
		slog.Warn("No data found in source")
		return result, nil
	}

	slog.Info("Fetched rows from source", "rows", len(rows))

	headers := rows[0]
	seenAccession := make(map[string]int)
	seenSlug := make(map[string]bool)

	for n, cells := range rows[1:] {
		result.Total++
		record := catalog.Enrich(catalog.MapRow(headers, cells), i.tables)

		if record.Collection != i.collection {
			continue
		}

		line := n + 2
		if first, dup := seenAccession[record.AccessionNo]; dup {
			result.Duplicates++
			slog.Warn("Duplicate accession number, keeping first row",
				"accession_no", record.AccessionNo, "row", line, "first_row", first)
			continue
		}
		seenAccession[record.AccessionNo] = line

		if record.Slug == "" {
			record.Slug = fallbackSlug(record, line)
			slog.Warn("Record has no usable slug, using fallback",
				"accession_no", record.AccessionNo, "row", line, "slug", record.Slug)
		}

		if unique := uniqueSlug(record.Slug, seenSlug); unique != record.Slug {
			result.SlugCollisions++
			slog.Warn("Slug collision, adding suffix",
				"accession_no", record.AccessionNo, "slug", record.Slug, "resolved", unique)
			record.Slug = unique
		}
		seenSlug[record.Slug] = true

		result.Records = append(result.Records, record)
	}

	result.Included = len(result.Records)
	result.Excluded = result.Total - result.Included

	slog.Info("Filtered records",
		"collection", i.collection,
		"included", result.Included,
		"excluded", result.Excluded,
		"duplicates", result.Duplicates)

	return result, nil
}

// fallbackSlug transliterates the accession number and item name for rows
// whose canonical slug is empty (e.g. a name written only in Cyrillic).
// Rows with nothing to transliterate get "row-<line>".
func fallbackSlug(record catalog.Record, line int) string {
	s := slug.Make(strings.TrimSpace(record.AccessionNo + " " + record.Item))
	if slug.IsSlug(s) {
		return s
	}
	return "row-" + strconv.Itoa(line)
}

// uniqueSlug appends -2, -3, ... until s is unused.
func uniqueSlug(s string, seen map[string]bool) string {
	if !seen[s] {
		return s
	}
	for n := 2; ; n++ {
		candidate := s + "-" + strconv.Itoa(n)
		if !seen[candidate] {
			return candidate
		}
	}
}
