// Package tabular fetches the raw catalog spreadsheet: a header row followed
// by data rows, every cell as text.
package tabular

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/puzzle-museum/catalog-sync/internal/google"
)

// DefaultRange covers every catalog column of the first sheet.
const DefaultRange = "A:AB"

// RowSource returns the full tabular range, headers first.
type RowSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// SheetsSource reads a range from a Google spreadsheet.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewSheetsSource creates a source for one spreadsheet range.
func NewSheetsSource(svc *sheets.Service, spreadsheetID, readRange string) *SheetsSource {
	if readRange == "" {
		readRange = DefaultRange
	}
	return &SheetsSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}
}

// FetchRows performs one bulk values.get call.
func (s *SheetsSource) FetchRows(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch range %s: %w", s.readRange, google.WrapError(err))
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = cellText(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
