package catalog

// Record is one normalized, enriched catalog entry as written to the primary artifact.
// Field order follows the artifact layout consumed by the presentation layer.
type Record struct {
	AccessionNo string `json:"accessionNo"`
	Box         string `json:"box"`

	Status            string `json:"status"`
	StatusLabel       string `json:"statusLabel"`
	StatusDescription string `json:"statusDescription"`

	Item       string `json:"item"`
	Collection string `json:"collection"`
	Series     string `json:"series"`
	SubSeries  string `json:"subSeries"`

	Producer     string `json:"producer"`
	Manufacturer string `json:"manufacturer"`
	Origin       string `json:"origin"`
	Year         string `json:"year"`

	ItemColor   string `json:"itemColor"`
	StickerType string `json:"stickerType"`
	ColorScheme string `json:"colorScheme"`
	Size        string `json:"size"`
	Weight      string `json:"weight"`

	ItemGrade              string `json:"itemGrade"`
	ItemGradeLabel         string `json:"itemGradeLabel"`
	ItemGradeDescription   string `json:"itemGradeDescription"`
	BoxGrade               string `json:"boxGrade"`
	BoxGradeLabel          string `json:"boxGradeLabel"`
	BoxGradeDescription    string `json:"boxGradeDescription"`
	PapersGrade            string `json:"papersGrade"`
	PapersGradeLabel       string `json:"papersGradeLabel"`
	PapersGradeDescription string `json:"papersGradeDescription"`

	Rarity            string `json:"rarity"`
	RarityLabel       string `json:"rarityLabel"`
	RarityDescription string `json:"rarityDescription"`

	Acquisition Acquisition `json:"acquisition"`

	HasPhoto bool   `json:"hasPhoto"`
	Notes    string `json:"notes"`
	Slug     string `json:"slug"`

	// Extra holds columns with no known mapping, keyed by their header.
	Extra map[string]string `json:"extra,omitempty"`
}

// Acquisition describes how an item entered the collection.
type Acquisition struct {
	Means   string `json:"means"`
	Medium  string `json:"medium"`
	Origin  string `json:"origin"`
	Sponsor string `json:"sponsor,omitempty"`
	Date    string `json:"date"`
	Cost    string `json:"cost"` // bucketed, see CostRange
}

// PhotoSet is the resolved photo documentation for one accession number.
type PhotoSet struct {
	Photos     []string `json:"photos"`
	PhotoCount int      `json:"photoCount"`
	BoxScan    string   `json:"boxScan,omitempty"`
}

// NewPhotoSet builds a PhotoSet whose count always matches its photos.
func NewPhotoSet(photos []string) PhotoSet {
	return PhotoSet{
		Photos:     photos,
		PhotoCount: len(photos),
	}
}

// Images is the secondary artifact: photo sets keyed by accession number.
type Images map[string]PhotoSet
