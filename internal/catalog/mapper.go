package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// Row is one raw tabular row keyed by record field name.
type Row map[string]string

// FieldMap maps spreadsheet column headers to record field names.
var FieldMap = map[string]string{
	"Acc. No.":                  "accessionNo",
	"Box":                       "box",
	"Status":                    "status",
	"Item":                      "item",
	"Collection":                "collection",
	"Series":                    "series",
	"Sub-Series":                "subSeries",
	"Producer":                  "producer",
	"Manufacturer":              "manufacturer",
	"Origin":                    "origin",
	"Year":                      "year",
	"Item Color":                "itemColor",
	"Item Sticker Type":         "stickerType",
	"Item Sticker Color Scheme": "colorScheme",
	"Item Size":                 "size",
	"Item Weight":               "weight",
	"Item Grade":                "itemGrade",
	"Box Grade":                 "boxGrade",
	"Papers Grade":              "papersGrade",
	"Item Rarity":               "rarity",
	"Means of Acquisition":      "acquisitionMeans",
	"Acquisition Medium":        "acquisitionMedium",
	"Acquisition Origin":        "acquisitionOrigin",
	"Acquisition Sponsor":       "acquisitionSponsor",
	"Accession Date":            "acquisitionDate",
	"Cost":                      "acquisitionCost",
	"Photo":                     "hasPhoto",
	"Notes":                     "notes",
}

var knownFields = func() map[string]bool {
	fields := make(map[string]bool, len(FieldMap))
	for _, field := range FieldMap {
		fields[field] = true
	}
	return fields
}()

// Cost buckets.
const (
	CostUpTo100 = "$0-100"
	CostUpTo500 = "$100-500"
	CostOver500 = "$500+"
)

// Exact, case-sensitive photo flag markers.
const (
	photoFlagYes = "TRUE"
	photoFlagOne = "1"
)

var (
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
	costNoise      = regexp.MustCompile(`[^0-9.]`)
	costNumber     = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)`)
)

// MapRow pairs headers with cells. Unknown headers keep their original name,
// blank headers are dropped and missing cells become empty strings.
func MapRow(headers, cells []string) Row {
	row := make(Row, len(headers))
	for i, header := range headers {
		if strings.TrimSpace(header) == "" {
			continue
		}
		field, ok := FieldMap[header]
		if !ok {
			field = header
		}
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		row[field] = value
	}
	return row
}

// Enrich turns a mapped row into a Record. It never fails: malformed or
// unknown values degrade to raw or empty fields.
func Enrich(row Row, tables Tables) Record {
	status := tables.LookupStatus(row["status"])
	itemGrade := tables.LookupGrade(row["itemGrade"])
	boxGrade := tables.LookupGrade(row["boxGrade"])
	papersGrade := tables.LookupGrade(row["papersGrade"])
	rarity := tables.LookupRarity(row["rarity"])

	rec := Record{
		AccessionNo: row["accessionNo"],
		Box:         row["box"],

		Status:            row["status"],
		StatusLabel:       status.Label,
		StatusDescription: status.Description,

		Item:       row["item"],
		Collection: row["collection"],
		Series:     row["series"],
		SubSeries:  row["subSeries"],

		Producer:     row["producer"],
		Manufacturer: row["manufacturer"],
		Origin:       row["origin"],
		Year:         row["year"],

		ItemColor:   row["itemColor"],
		StickerType: row["stickerType"],
		ColorScheme: row["colorScheme"],
		Size:        row["size"],
		Weight:      row["weight"],

		ItemGrade:              row["itemGrade"],
		ItemGradeLabel:         itemGrade.Label,
		ItemGradeDescription:   itemGrade.Description,
		BoxGrade:               row["boxGrade"],
		BoxGradeLabel:          boxGrade.Label,
		BoxGradeDescription:    boxGrade.Description,
		PapersGrade:            row["papersGrade"],
		PapersGradeLabel:       papersGrade.Label,
		PapersGradeDescription: papersGrade.Description,

		Rarity:            row["rarity"],
		RarityLabel:       rarity.Label,
		RarityDescription: rarity.Description,

		Acquisition: Acquisition{
			Means:   row["acquisitionMeans"],
			Medium:  row["acquisitionMedium"],
			Origin:  row["acquisitionOrigin"],
			Sponsor: row["acquisitionSponsor"],
			Date:    row["acquisitionDate"],
			Cost:    CostRange(row["acquisitionCost"]),
		},

		HasPhoto: HasPhotoFlag(row["hasPhoto"]),
		Notes:    row["notes"],
		Slug:     Slug(row["accessionNo"], row["item"]),
	}

	for field, value := range row {
		if knownFields[field] {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[field] = value
	}

	return rec
}

// HasPhotoFlag reports whether a photo cell holds one of the exact truthy markers.
func HasPhotoFlag(cell string) bool {
	return cell == photoFlagYes || cell == photoFlagOne
}

// Slug builds the URL slug for an item: lower-cased, every run of
// non-alphanumerics collapsed to one hyphen, no leading or trailing hyphen.
//
//	Slug("2016.001", "Magic Cube") == "2016-001-magic-cube"
func Slug(accessionNo, item string) string {
	s := strings.ToLower(accessionNo + "-" + item)
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CostRange buckets a free-text cost. The numeric part is taken after
// stripping everything but digits and dots; text with no numeric part is
// returned trimmed but otherwise unchanged, so "" stays "" and "donated"
// stays "donated".
func CostRange(cost string) string {
	trimmed := strings.TrimSpace(cost)
	if trimmed == "" {
		return ""
	}

	number := costNumber.FindString(costNoise.ReplaceAllString(trimmed, ""))
	if number == "" {
		return trimmed
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return trimmed
	}

	switch {
	case value <= 100:
		return CostUpTo100
	case value <= 500:
		return CostUpTo500
	default:
		return CostOver500
	}
}
