// Package export writes the composed catalog in columnar form for analysis.
package export

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/parquet-go/parquet-go"

	"github.com/puzzle-museum/catalog-sync/internal/atomicfile"
	"github.com/puzzle-museum/catalog-sync/internal/compose"
)

// Row is the flat Parquet layout of one catalog entry.
type Row struct {
	AccessionNo  string   `parquet:"accession_no"`
	Slug         string   `parquet:"slug"`
	Item         string   `parquet:"item"`
	Collection   string   `parquet:"collection"`
	Series       string   `parquet:"series"`
	SubSeries    string   `parquet:"sub_series"`
	Producer     string   `parquet:"producer"`
	Manufacturer string   `parquet:"manufacturer"`
	Origin       string   `parquet:"origin"`
	Year         string   `parquet:"year"`
	Status       string   `parquet:"status"`
	StatusLabel  string   `parquet:"status_label"`
	ItemGrade    string   `parquet:"item_grade"`
	BoxGrade     string   `parquet:"box_grade"`
	PapersGrade  string   `parquet:"papers_grade"`
	Rarity       string   `parquet:"rarity"`
	RarityLabel  string   `parquet:"rarity_label"`
	CostRange    string   `parquet:"cost_range"`
	AcquiredOn   string   `parquet:"acquired_on"`
	HasPhoto     bool     `parquet:"has_photo"`
	PhotoCount   int32    `parquet:"photo_count"`
	Photos       []string `parquet:"photos,list"`
	BoxScan      string   `parquet:"box_scan,optional"`
}

// Rows flattens entries in order.
func Rows(entries []compose.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{
			AccessionNo:  e.AccessionNo,
			Slug:         e.Slug,
			Item:         e.Item,
			Collection:   e.Collection,
			Series:       e.Series,
			SubSeries:    e.SubSeries,
			Producer:     e.Producer,
			Manufacturer: e.Manufacturer,
			Origin:       e.Origin,
			Year:         e.Year,
			Status:       e.Status,
			StatusLabel:  e.StatusLabel,
			ItemGrade:    e.ItemGrade,
			BoxGrade:     e.BoxGrade,
			PapersGrade:  e.PapersGrade,
			Rarity:       e.Rarity,
			RarityLabel:  e.RarityLabel,
			CostRange:    e.Acquisition.Cost,
			AcquiredOn:   e.Acquisition.Date,
			HasPhoto:     e.HasPhoto,
		}
		if e.PhotoSet != nil {
			row.PhotoCount = int32(e.PhotoCount)
			row.Photos = e.Photos
			row.BoxScan = e.BoxScan
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteParquet writes entries to path, replacing any previous file.
func WriteParquet(path string, entries []compose.Entry) error {
	rows := Rows(entries)

	var buf bytes.Buffer
	if err := parquet.Write(&buf, rows); err != nil {
		return fmt.Errorf("failed to encode parquet: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Debug("Wrote Parquet export", "path", path, "rows", len(rows))
	return nil
}
