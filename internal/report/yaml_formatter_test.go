package report

import (
	"errors"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/puzzle-museum/catalog-sync/internal/ingest"
	"github.com/puzzle-museum/catalog-sync/internal/photosync"
)

func TestSaveToYAML(t *testing.T) {
	dir := t.TempDir()

	r := New(RunConfig{Pass: "photos", Source: "drive", PhotoRoot: "folder-123", Pacing: "fixed 100ms", BoxScans: true})
	r.SetPhotos(photosync.Summary{Total: 4, Resolved: 1, NotFound: 2, Skipped: 1, Errors: 1})
	r.Observe(photosync.Outcome{AccessionNo: "2016.001", Status: photosync.StatusResolved})
	r.Observe(photosync.Outcome{AccessionNo: "2016.002", Status: photosync.StatusNotFound})
	r.Observe(photosync.Outcome{AccessionNo: "2016.003", Status: photosync.StatusTransientError, Err: errors.New("timeout")})
	r.Observe(photosync.Outcome{AccessionNo: "2016.004", Status: photosync.StatusNotExpected})

	path, err := r.SaveToYAML(dir)
	if err != nil {
		t.Fatalf("SaveToYAML() error = %v", err)
	}
	if !strings.HasSuffix(path, r.Filename()) {
		t.Errorf("Expected path ending in %s, got %s", r.Filename(), path)
	}
	if !strings.HasPrefix(r.Filename(), "photos-") {
		t.Errorf("Expected filename to start with the pass name, got %s", r.Filename())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	var got Report
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to parse report: %v", err)
	}

	if got.RunID == "" || got.RunID != r.RunID {
		t.Errorf("Expected run id %q, got %q", r.RunID, got.RunID)
	}
	if got.Photos == nil || got.Photos.Resolved != 1 || got.Photos.Errors != 1 {
		t.Errorf("Unexpected photo counters: %+v", got.Photos)
	}
	if got.Ingest != nil {
		t.Errorf("Expected no ingest section, got %+v", got.Ingest)
	}
	if len(got.Misses) != 2 {
		t.Fatalf("Expected 2 misses, got %d", len(got.Misses))
	}
	if got.Misses[1].Error != "timeout" || got.Misses[1].Status != "transient_error" {
		t.Errorf("Unexpected miss: %+v", got.Misses[1])
	}
	if got.Duration == "" {
		t.Error("Expected duration to be set")
	}
}

func TestSetIngest(t *testing.T) {
	r := New(RunConfig{Pass: "sheets"})
	r.SetIngest(&ingest.Result{Total: 10, Included: 7, Excluded: 3, Duplicates: 1})

	if r.Ingest.Total != 10 || r.Ingest.Included != 7 || r.Ingest.Excluded != 3 || r.Ingest.Duplicates != 1 {
		t.Errorf("Unexpected ingest counters: %+v", r.Ingest)
	}
	if r.Config.Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}
}

func TestNewRunIDsAreUnique(t *testing.T) {
	if New(RunConfig{}).RunID == New(RunConfig{}).RunID {
		t.Error("Expected distinct run ids")
	}
}
