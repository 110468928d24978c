// Package report writes a YAML summary of each sync run.
package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/puzzle-museum/catalog-sync/internal/atomicfile"
	"github.com/puzzle-museum/catalog-sync/internal/ingest"
	"github.com/puzzle-museum/catalog-sync/internal/photosync"
)

// DefaultDir is where run reports are written.
const DefaultDir = "reports"

const timestampLayout = "2006-01-02_15-04-05"

// RunConfig is the configuration snapshot of a run. It never holds secrets.
type RunConfig struct {
	Pass        string `yaml:"pass"`
	Source      string `yaml:"source"`
	PhotoRoot   string `yaml:"photoroot,omitempty"`
	Collection  string `yaml:"collection,omitempty"`
	CatalogPath string `yaml:"catalogpath,omitempty"`
	ImagesPath  string `yaml:"imagespath,omitempty"`
	Pacing      string `yaml:"pacing,omitempty"`
	BoxScans    bool   `yaml:"boxscans,omitempty"`
	Timestamp   string `yaml:"timestamp"`
}

// IngestCounters mirrors ingest.Result without the records.
type IngestCounters struct {
	Total          int `yaml:"total"`
	Included       int `yaml:"included"`
	Excluded       int `yaml:"excluded"`
	Duplicates     int `yaml:"duplicates"`
	SlugCollisions int `yaml:"slugcollisions"`
}

// PhotoCounters mirrors photosync.Summary.
type PhotoCounters struct {
	Total    int `yaml:"total"`
	Resolved int `yaml:"resolved"`
	NotFound int `yaml:"notfound"`
	Skipped  int `yaml:"skipped"`
	Errors   int `yaml:"errors"`
	BoxScans int `yaml:"boxscans"`
}

// Miss is a record that expected photos but got none.
type Miss struct {
	AccessionNo string `yaml:"accessionno"`
	Status      string `yaml:"status"`
	Error       string `yaml:"error,omitempty"`
}

// Report is one run report.
type Report struct {
	RunID    string          `yaml:"runid"`
	Config   RunConfig       `yaml:"config"`
	Ingest   *IngestCounters `yaml:"ingest,omitempty"`
	Photos   *PhotoCounters  `yaml:"photos,omitempty"`
	Misses   []Miss          `yaml:"misses,omitempty"`
	Duration string          `yaml:"duration,omitempty"`

	started time.Time
}

// New starts a report for one pass.
func New(cfg RunConfig) *Report {
	now := time.Now()
	cfg.Timestamp = now.Format(timestampLayout)
	return &Report{
		RunID:   uuid.NewString(),
		Config:  cfg,
		started: now,
	}
}

// SetIngest records the metadata pass counters.
func (r *Report) SetIngest(res *ingest.Result) {
	r.Ingest = &IngestCounters{
		Total:          res.Total,
		Included:       res.Included,
		Excluded:       res.Excluded,
		Duplicates:     res.Duplicates,
		SlugCollisions: res.SlugCollisions,
	}
}

// SetPhotos records the photo pass counters.
func (r *Report) SetPhotos(s photosync.Summary) {
	r.Photos = &PhotoCounters{
		Total:    s.Total,
		Resolved: s.Resolved,
		NotFound: s.NotFound,
		Skipped:  s.Skipped,
		Errors:   s.Errors,
		BoxScans: s.BoxScans,
	}
}

// Observe collects photo misses. It is meant for photosync.WithObserver.
func (r *Report) Observe(o photosync.Outcome) {
	switch o.Status {
	case photosync.StatusNotFound:
		r.Misses = append(r.Misses, Miss{AccessionNo: o.AccessionNo, Status: o.Status.String()})
	case photosync.StatusTransientError:
		miss := Miss{AccessionNo: o.AccessionNo, Status: o.Status.String()}
		if o.Err != nil {
			miss.Error = o.Err.Error()
		}
		r.Misses = append(r.Misses, miss)
	}
}

// Filename is the report file name: <pass>-<timestamp>.yaml.
func (r *Report) Filename() string {
	return fmt.Sprintf("%s-%s.yaml", r.Config.Pass, r.Config.Timestamp)
}

// SaveToYAML writes the report under dir and returns its absolute path.
func (r *Report) SaveToYAML(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if !r.started.IsZero() {
		r.Duration = time.Since(r.started).Round(time.Millisecond).String()
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	filename := filepath.Join(dir, r.Filename())
	if err := atomicfile.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return filename, nil
	}
	return absPath, nil
}
