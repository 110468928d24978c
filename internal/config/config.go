// Package config builds the single Config value shared by every command.
//
// Sources, lowest to highest precedence: defaults, an optional config file,
// environment variables and command flags. Keys are the flag names.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/puzzle-museum/catalog-sync/internal/folder"
	"github.com/puzzle-museum/catalog-sync/internal/ingest"
	"github.com/puzzle-museum/catalog-sync/internal/pacing"
	"github.com/puzzle-museum/catalog-sync/internal/report"
	"github.com/puzzle-museum/catalog-sync/internal/tabular"
)

// Configuration keys.
const (
	KeySpreadsheetID     = "spreadsheet-id"
	KeySheetRange        = "range"
	KeyServiceAccountKey = "service-account-key"
	KeyDriveFolderID     = "folder-id"
	KeySourceFile        = "source-file"
	KeyPhotosDir         = "photos-dir"
	KeyPhotoBaseURL      = "photo-base-url"
	KeyCollection        = "collection"
	KeyOutputDir         = "output-dir"
	KeyCatalogFile       = "catalog-file"
	KeyImagesFile        = "images-file"
	KeyReportDir         = "report-dir"
	KeyTimeout           = "timeout"
	KeyDelay             = "delay"
	KeyRate              = "rate"
	KeyBurst             = "burst"
	KeyThumbnailSize     = "thumbnail-size"
	KeyBoxScans          = "box-scans"
)

// Defaults.
const (
	DefaultOutputDir   = "public/data"
	DefaultCatalogFile = "puzzles.json"
	DefaultImagesFile  = "puzzle-images.json"
)

var envBindings = map[string]string{
	KeySpreadsheetID:     "GOOGLE_SPREADSHEET_ID",
	KeySheetRange:        "GOOGLE_SHEET_RANGE",
	KeyServiceAccountKey: "GOOGLE_SERVICE_ACCOUNT_KEY",
	KeyDriveFolderID:     "GOOGLE_DRIVE_FOLDER_ID",
	KeySourceFile:        "CATALOG_SOURCE_FILE",
	KeyPhotosDir:         "CATALOG_PHOTOS_DIR",
	KeyPhotoBaseURL:      "CATALOG_PHOTO_BASE_URL",
	KeyCollection:        "CATALOG_COLLECTION",
	KeyOutputDir:         "CATALOG_OUTPUT_DIR",
	KeyCatalogFile:       "CATALOG_FILE",
	KeyImagesFile:        "CATALOG_IMAGES_FILE",
	KeyReportDir:         "CATALOG_REPORT_DIR",
	KeyTimeout:           "CATALOG_TIMEOUT",
	KeyDelay:             "CATALOG_PHOTO_DELAY",
	KeyRate:              "CATALOG_PHOTO_RATE",
	KeyBurst:             "CATALOG_PHOTO_BURST",
	KeyThumbnailSize:     "CATALOG_THUMBNAIL_SIZE",
	KeyBoxScans:          "CATALOG_BOX_SCANS",
}

// ErrMissing marks a required setting that has no value.
var ErrMissing = errors.New("missing required configuration")

// Config is the resolved run configuration.
type Config struct {
	SpreadsheetID     string
	SheetRange        string
	ServiceAccountKey string
	DriveFolderID     string

	SourceFile   string
	PhotosDir    string
	PhotoBaseURL string

	Collection string

	OutputDir   string
	CatalogFile string
	ImagesFile  string
	ReportDir   string

	CallTimeout   time.Duration
	PhotoDelay    time.Duration
	PhotoRate     float64
	PhotoBurst    int
	ThumbnailSize string
	BoxScans      bool

	ConfigFile string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySheetRange, tabular.DefaultRange)
	v.SetDefault(KeyCollection, ingest.DefaultCollection)
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyCatalogFile, DefaultCatalogFile)
	v.SetDefault(KeyImagesFile, DefaultImagesFile)
	v.SetDefault(KeyReportDir, report.DefaultDir)
	v.SetDefault(KeyTimeout, folder.DefaultCallTimeout)
	v.SetDefault(KeyDelay, pacing.DefaultDelay)
	v.SetDefault(KeyRate, 0.0)
	v.SetDefault(KeyBurst, 1)
	v.SetDefault(KeyThumbnailSize, folder.DefaultThumbnailSize)
	v.SetDefault(KeyBoxScans, false)
}

// BindEnv maps every key to its environment variable.
func BindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// BindFlags binds every flag in flags whose name is a configuration key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if _, ok := envBindings[f.Name]; !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Load reads configFile (if set) into v and builds the Config. v should
// already have its env and flag bindings.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		SpreadsheetID:     strings.TrimSpace(v.GetString(KeySpreadsheetID)),
		SheetRange:        v.GetString(KeySheetRange),
		ServiceAccountKey: v.GetString(KeyServiceAccountKey),
		DriveFolderID:     strings.TrimSpace(v.GetString(KeyDriveFolderID)),
		SourceFile:        v.GetString(KeySourceFile),
		PhotosDir:         v.GetString(KeyPhotosDir),
		PhotoBaseURL:      v.GetString(KeyPhotoBaseURL),
		Collection:        v.GetString(KeyCollection),
		OutputDir:         v.GetString(KeyOutputDir),
		CatalogFile:       v.GetString(KeyCatalogFile),
		ImagesFile:        v.GetString(KeyImagesFile),
		ReportDir:         v.GetString(KeyReportDir),
		CallTimeout:       v.GetDuration(KeyTimeout),
		PhotoDelay:        v.GetDuration(KeyDelay),
		PhotoRate:         v.GetFloat64(KeyRate),
		PhotoBurst:        v.GetInt(KeyBurst),
		ThumbnailSize:     v.GetString(KeyThumbnailSize),
		BoxScans:          v.GetBool(KeyBoxScans),
		ConfigFile:        v.ConfigFileUsed(),
	}

	if cfg.CallTimeout < 0 || cfg.PhotoDelay < 0 {
		return nil, fmt.Errorf("timeout and delay must not be negative")
	}
	if cfg.PhotoRate < 0 {
		return nil, fmt.Errorf("rate must not be negative, got %v", cfg.PhotoRate)
	}
	return cfg, nil
}

// CatalogPath is the primary artifact location.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.OutputDir, c.CatalogFile)
}

// ImagesPath is the secondary artifact location.
func (c *Config) ImagesPath() string {
	return filepath.Join(c.OutputDir, c.ImagesFile)
}

// RequireSheetSource checks that the metadata pass has something to read.
func (c *Config) RequireSheetSource() error {
	if c.SourceFile != "" {
		return nil
	}
	if c.SpreadsheetID == "" {
		return missing(KeySpreadsheetID)
	}
	if c.ServiceAccountKey == "" {
		return missing(KeyServiceAccountKey)
	}
	return nil
}

// RequirePhotoSource checks that the photo pass has a store to search.
func (c *Config) RequirePhotoSource() error {
	if c.PhotosDir != "" {
		if c.PhotoBaseURL == "" {
			return missing(KeyPhotoBaseURL)
		}
		return nil
	}
	if c.DriveFolderID == "" {
		return missing(KeyDriveFolderID)
	}
	if c.ServiceAccountKey == "" {
		return missing(KeyServiceAccountKey)
	}
	return nil
}

func missing(key string) error {
	return fmt.Errorf("%w: set --%s or %s", ErrMissing, key, envBindings[key])
}

// Pacer builds the pause policy for the photo pass: a token bucket when a
// rate is set, a fixed delay otherwise.
func (c *Config) Pacer() pacing.Pacer {
	if c.PhotoRate > 0 {
		return pacing.NewTokenBucket(c.PhotoRate, c.PhotoBurst)
	}
	return pacing.FixedDelay{Delay: c.PhotoDelay}
}

// PacingDescription summarises the pacing policy for logs and reports.
func (c *Config) PacingDescription() string {
	if c.PhotoRate > 0 {
		return fmt.Sprintf("token bucket %.2f/s burst %d", c.PhotoRate, c.PhotoBurst)
	}
	return fmt.Sprintf("fixed %s", c.PhotoDelay)
}
