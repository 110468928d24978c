// Package compose merges the catalog and image artifacts into the view the
// catalog site browses, with its search, filter and sort rules.
package compose

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/puzzle-museum/catalog-sync/internal/catalog"
)

// Entry is a record shallow-merged with its photo set. A nil PhotoSet means
// the record has no resolved photos and the photo fields are left out.
type Entry struct {
	catalog.Record
	*catalog.PhotoSet
}

// Merge joins records with images by accession number, in record order.
func Merge(records []catalog.Record, images catalog.Images) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entry := Entry{Record: rec}
		if set, ok := images[rec.AccessionNo]; ok {
			entry.PhotoSet = &set
		}
		entries = append(entries, entry)
	}
	return entries
}

// Load reads both artifacts and merges them. The images artifact is optional:
// when it is missing or unreadable every entry is returned without photos.
func Load(catalogPath, imagesPath string) ([]Entry, error) {
	records, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	images, err := catalog.LoadImages(imagesPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No images artifact", "path", imagesPath)
		} else {
			slog.Warn("Failed to load images, continuing without photos", "path", imagesPath, "error", err)
		}
		images = nil
	}

	return Merge(records, images), nil
}

// All is the filter value meaning "no filter".
const All = "all"

// Filter restricts entries by exact field value. Empty or All disables a field.
type Filter struct {
	Series string
	Origin string
	Rarity string
	Status string
}

func (f Filter) active(v string) bool {
	return v != "" && v != All
}

// Match reports whether e passes every active field.
func (f Filter) Match(e Entry) bool {
	if f.active(f.Series) && e.Series != f.Series {
		return false
	}
	if f.active(f.Origin) && e.Origin != f.Origin {
		return false
	}
	if f.active(f.Rarity) && e.Rarity != f.Rarity {
		return false
	}
	if f.active(f.Status) && e.Status != f.Status {
		return false
	}
	return true
}

// SortKey names a sort order.
type SortKey string

const (
	SortAccession SortKey = "accession"
	SortYear      SortKey = "year"
	SortRarity    SortKey = "rarity"
	SortName      SortKey = "name"
)

// ParseSortKey validates a sort order name; empty means accession.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return SortAccession, nil
	case SortAccession, SortYear, SortRarity, SortName:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (use accession, year, rarity or name)", s)
	}
}

// Query is one browse request.
type Query struct {
	Search string
	Filter Filter
	Sort   SortKey
}

// Apply runs search, then filter, then sort, and returns a new slice.
func Apply(entries []Entry, q Query) []Entry {
	out := Search(entries, q.Search)
	out = slices.DeleteFunc(out, func(e Entry) bool {
		return !q.Filter.Match(e)
	})
	Sort(out, q.Sort)
	return out
}

// Search keeps entries whose item, accession number, series, manufacturer
// or notes contain term, ignoring case. An empty term keeps everything.
func Search(entries []Entry, term string) []Entry {
	out := make([]Entry, 0, len(entries))
	if term == "" {
		return append(out, entries...)
	}

	fold := cases.Fold()
	needle := fold.String(term)
	for _, e := range entries {
		for _, field := range []string{e.Item, e.AccessionNo, e.Series, e.Manufacturer, e.Notes} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Sort orders entries in place. Rarity sorts the highest R-number first and
// entries without a parsable rarity last; the other keys sort ascending.
func Sort(entries []Entry, key SortKey) {
	col := collate.New(language.English)

	var cmp func(a, b Entry) int
	switch key {
	case SortYear:
		cmp = func(a, b Entry) int { return col.CompareString(a.Year, b.Year) }
	case SortRarity:
		cmp = func(a, b Entry) int { return rarityRank(b.Rarity) - rarityRank(a.Rarity) }
	case SortName:
		cmp = func(a, b Entry) int { return col.CompareString(a.Item, b.Item) }
	default:
		cmp = func(a, b Entry) int { return col.CompareString(a.AccessionNo, b.AccessionNo) }
	}
	slices.SortStableFunc(entries, cmp)
}

func rarityRank(code string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(code, "R"))
	if err != nil {
		return -1
	}
	return n
}

// Facets lists the values offered by the browse filters.
type Facets struct {
	Series   []string `json:"series"`
	Origins  []string `json:"origins"`
	Rarities []string `json:"rarities"`
	Statuses []string `json:"statuses"`
}

var statusOrder = []string{"A", "L", "M", "X", "XE", "XD", "XS"}

// BuildFacets collects the distinct non-empty series and origins of entries.
// Rarities and statuses are the fixed code lists.
func BuildFacets(entries []Entry) Facets {
	var series, origins []string
	for _, e := range entries {
		if e.Series != "" {
			series = append(series, e.Series)
		}
		if e.Origin != "" {
			origins = append(origins, e.Origin)
		}
	}
	slices.Sort(series)
	slices.Sort(origins)

	rarities := make([]string, 0, len(catalog.RarityCodes))
	for code := range catalog.RarityCodes {
		rarities = append(rarities, code)
	}
	slices.Sort(rarities)

	return Facets{
		Series:   nonNil(slices.Compact(series)),
		Origins:  nonNil(slices.Compact(origins)),
		Rarities: rarities,
		Statuses: slices.Clone(statusOrder),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
