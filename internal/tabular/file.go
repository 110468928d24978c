package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const byteOrderMark = "\ufeff"

// FileSource reads a local export of the catalog spreadsheet (CSV, TSV or Parquet).
type FileSource struct {
	path string
}

// NewFileSource creates a source for an exported spreadsheet file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchRows loads the whole file, header row first.
func (f *FileSource) FetchRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(f.path))
	switch ext {
	case ".csv":
		return f.loadDelimited(',')
	case ".tsv":
		return f.loadDelimited('\t')
	case ".parquet":
		return f.loadParquet()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .csv, .tsv, .parquet)", ext)
	}
}

func (f *FileSource) loadDelimited(comma rune) ([][]string, error) {
	slog.Debug("Opening delimited file", "path", f.path)

	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}

	// spreadsheet "CSV UTF-8" exports start with a byte order mark
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], byteOrderMark)
	}

	slog.Debug("Finished reading delimited file", "rows", len(rows))
	return rows, nil
}

// loadParquet reads a flat Parquet file. Leaf column paths become headers and
// every value is rendered as text; nulls become empty cells.
func (f *FileSource) loadParquet() ([][]string, error) {
	slog.Debug("Opening Parquet file", "path", f.path)

	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	columns := pf.Schema().Columns()
	headers := make([]string, len(columns))
	for i, path := range columns {
		headers[i] = strings.Join(path, ".")
	}

	out := [][]string{headers}
	batch := make([]parquet.Row, 128)
	for _, rowGroup := range pf.RowGroups() {
		rows := rowGroup.Rows()
		for {
			n, err := rows.ReadRows(batch)
			for _, row := range batch[:n] {
				out = append(out, rowCells(row, len(headers)))
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				rows.Close()
				return nil, fmt.Errorf("failed to read parquet rows: %w", err)
			}
		}
		rows.Close()
	}

	slog.Debug("Finished reading Parquet file", "rows", len(out)-1)
	return out, nil
}

func rowCells(row parquet.Row, width int) []string {
	cells := make([]string, width)
	for _, value := range row {
		col := value.Column()
		if col < 0 || col >= width || value.IsNull() {
			continue
		}
		cells[col] = value.String()
	}
	return cells
}
