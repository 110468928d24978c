package catalog

import (
	"testing"
)

var fixtureHeaders = []string{
	"Acc. No.", "Box", "Status", "Item", "Collection", "Series", "Sub-Series",
	"Producer", "Manufacturer", "Origin", "Year", "Item Color", "Item Sticker Type",
	"Item Sticker Color Scheme", "Item Size", "Item Weight", "Item Grade", "Box Grade",
	"Papers Grade", "Item Rarity", "Means of Acquisition", "Acquisition Medium",
	"Acquisition Origin", "Acquisition Sponsor", "Accession Date", "Cost", "Photo", "Notes",
}

func TestMapRow(t *testing.T) {
	headers := []string{"Acc. No.", "Item", "Shelf", "", "Photo"}
	cells := []string{"2016.001", "Magic Cube", "B-3", "ignored"}

	row := MapRow(headers, cells)

	if row["accessionNo"] != "2016.001" {
		t.Errorf("Expected accessionNo=2016.001, got %q", row["accessionNo"])
	}
	if row["Shelf"] != "B-3" {
		t.Errorf("Expected unknown header to pass through, got %q", row["Shelf"])
	}
	if _, ok := row[""]; ok {
		t.Error("Expected blank header to be dropped")
	}
	if v, ok := row["hasPhoto"]; !ok || v != "" {
		t.Errorf("Expected missing cell to default to empty string, got %q (present=%v)", v, ok)
	}
}

func TestEnrich(t *testing.T) {
	cells := []string{
		"2016.001", "12", "A", "Magic Cube", "Cube Puzzles", "Rubik's", "Original",
		"Ideal", "Politechnika", "Hungary", "1980", "White", "Paper", "Standard",
		"3x3x3", "100g", "NM", "VG", "X", "R4", "Purchase", "eBay",
		"Seller", "", "2016-02-01", "$199.99", "TRUE", "First edition",
	}

	rec := Enrich(MapRow(fixtureHeaders, cells), DefaultTables())

	checks := []struct {
		name     string
		got      string
		expected string
	}{
		{"accessionNo", rec.AccessionNo, "2016.001"},
		{"box", rec.Box, "12"},
		{"statusLabel", rec.StatusLabel, "Accessioned"},
		{"statusDescription", rec.StatusDescription, "Active in collection"},
		{"itemGradeLabel", rec.ItemGradeLabel, "Near Mint"},
		{"boxGradeLabel", rec.BoxGradeLabel, "Very Good"},
		{"papersGradeLabel", rec.PapersGradeLabel, "Missing"},
		{"rarityLabel", rec.RarityLabel, "Rare"},
		{"acquisition.means", rec.Acquisition.Means, "Purchase"},
		{"acquisition.date", rec.Acquisition.Date, "2016-02-01"},
		{"acquisition.cost", rec.Acquisition.Cost, CostUpTo500},
		{"slug", rec.Slug, "2016-001-magic-cube"},
		{"notes", rec.Notes, "First edition"},
	}
	for _, c := range checks {
		if c.got != c.expected {
			t.Errorf("%s: expected %q, got %q", c.name, c.expected, c.got)
		}
	}

	if !rec.HasPhoto {
		t.Error("Expected hasPhoto=true for TRUE flag")
	}
	if rec.Extra != nil {
		t.Errorf("Expected no extra fields, got %v", rec.Extra)
	}
}

func TestEnrichEmptyRow(t *testing.T) {
	rec := Enrich(MapRow(fixtureHeaders, nil), DefaultTables())

	if rec.AccessionNo != "" || rec.Item != "" || rec.Slug != "" {
		t.Errorf("Expected empty identity fields, got accessionNo=%q item=%q slug=%q", rec.AccessionNo, rec.Item, rec.Slug)
	}
	if rec.HasPhoto {
		t.Error("Expected hasPhoto=false for empty flag")
	}
	if rec.Acquisition.Cost != "" {
		t.Errorf("Expected empty cost bucket, got %q", rec.Acquisition.Cost)
	}
}

func TestEnrichUnknownCodes(t *testing.T) {
	row := Row{
		"status":      "Q",
		"itemGrade":   "ZZ",
		"boxGrade":    "",
		"papersGrade": "mint",
		"rarity":      "R9",
	}

	rec := Enrich(row, DefaultTables())

	tests := []struct {
		name        string
		label       string
		description string
		wantLabel   string
	}{
		{"status falls back to raw code", rec.StatusLabel, rec.StatusDescription, "Q"},
		{"item grade falls back to empty", rec.ItemGradeLabel, rec.ItemGradeDescription, ""},
		{"box grade falls back to empty", rec.BoxGradeLabel, rec.BoxGradeDescription, ""},
		{"grade lookup is case sensitive", rec.PapersGradeLabel, rec.PapersGradeDescription, ""},
		{"rarity falls back to raw code", rec.RarityLabel, rec.RarityDescription, "R9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.label != tt.wantLabel {
				t.Errorf("Expected label %q, got %q", tt.wantLabel, tt.label)
			}
			if tt.description != "" {
				t.Errorf("Expected empty description, got %q", tt.description)
			}
		})
	}
}

func TestEnrichPassesThroughUnknownColumns(t *testing.T) {
	row := MapRow([]string{"Acc. No.", "Display Case"}, []string{"2017.004", "North"})

	rec := Enrich(row, DefaultTables())

	if rec.Extra["Display Case"] != "North" {
		t.Errorf("Expected Display Case=North in extra fields, got %v", rec.Extra)
	}
	if _, ok := rec.Extra["accessionNo"]; ok {
		t.Error("Expected mapped fields to stay out of extra fields")
	}
}

func TestHasPhotoFlag(t *testing.T) {
	tests := []struct {
		cell     string
		expected bool
	}{
		{"TRUE", true},
		{"1", true},
		{"true", false},
		{"True", false},
		{"yes", false},
		{" TRUE", false},
		{"0", false},
		{"FALSE", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			if got := HasPhotoFlag(tt.cell); got != tt.expected {
				t.Errorf("HasPhotoFlag(%q): expected %v, got %v", tt.cell, tt.expected, got)
			}
		})
	}
}

func TestCostRange(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		expected string
	}{
		{"mid range with cents", "$199.99", CostUpTo500},
		{"low range", "$50", CostUpTo100},
		{"just over 500", "$501", CostOver500},
		{"exactly 100", "100", CostUpTo100},
		{"exactly 500", "$500.00", CostUpTo500},
		{"zero", "$0", CostUpTo100},
		{"thousands separator", "$1,200", CostOver500},
		{"currency suffix", "75 USD", CostUpTo100},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"non numeric passes through", "donated", "donated"},
		{"non numeric is trimmed", "  gift ", "gift"},
		{"lone dot passes through", ".", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CostRange(tt.cost); got != tt.expected {
				t.Errorf("CostRange(%q): expected %q, got %q", tt.cost, tt.expected, got)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		accessionNo string
		item        string
		expected    string
	}{
		{"2016.001", "Magic Cube", "2016-001-magic-cube"},
		{"2016.002", "Rubik's Revenge (4x4)", "2016-002-rubik-s-revenge-4x4"},
		{"2018.010", "  --Mirror   Blocks!!", "2018-010-mirror-blocks"},
		{"", "", ""},
		{"", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := Slug(tt.accessionNo, tt.item)
			if got != tt.expected {
				t.Errorf("Slug(%q, %q): expected %q, got %q", tt.accessionNo, tt.item, tt.expected, got)
			}
			if again := Slug(tt.accessionNo, tt.item); again != got {
				t.Errorf("Expected deterministic slug, got %q then %q", got, again)
			}
			if reslug := Slug(got, ""); reslug != got {
				t.Errorf("Expected slug to be a fixed point, got %q from %q", reslug, got)
			}
		})
	}
}
