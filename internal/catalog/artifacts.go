package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/puzzle-museum/catalog-sync/internal/atomicfile"
)

// SaveCatalog writes the primary artifact, replacing any previous file.
func SaveCatalog(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	return writeJSON(path, records)
}

// LoadCatalog reads the primary artifact.
func LoadCatalog(path string) ([]Record, error) {
	var records []Record
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveImages writes the secondary artifact, replacing any previous file.
func SaveImages(path string, images Images) error {
	if images == nil {
		images = Images{}
	}
	return writeJSON(path, images)
}

// LoadImages reads the secondary artifact.
func LoadImages(path string) (Images, error) {
	images := Images{}
	if err := readJSON(path, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// writeJSON pretty-prints v with two-space indentation. HTML escaping is off
// so thumbnail locators keep their literal "&".
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
