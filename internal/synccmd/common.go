package synccmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/puzzle-museum/catalog-sync/internal/config"
	"github.com/puzzle-museum/catalog-sync/internal/folder"
	"github.com/puzzle-museum/catalog-sync/internal/google"
	"github.com/puzzle-museum/catalog-sync/internal/ingest"
	"github.com/puzzle-museum/catalog-sync/internal/pacing"
	"github.com/puzzle-museum/catalog-sync/internal/report"
	"github.com/puzzle-museum/catalog-sync/internal/tabular"
)

// ConfigFlag is the persistent flag naming an optional config file.
const ConfigFlag = "config"

// LoadConfig builds the Config from defaults, the --config file, the
// environment and the flags of cmd.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	if err := config.BindEnv(v); err != nil {
		return nil, err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}

	configFile, _ := cmd.Flags().GetString(ConfigFlag)
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.ConfigFile != "" {
		slog.Debug("Loaded config file", "path", cfg.ConfigFile)
	}
	return cfg, nil
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyOutputDir, config.DefaultOutputDir, "Directory for the catalog artifacts")
	fs.String(config.KeyCatalogFile, config.DefaultCatalogFile, "File name of the catalog artifact")
	fs.String(config.KeyImagesFile, config.DefaultImagesFile, "File name of the images artifact")
}

func addSheetFlags(fs *pflag.FlagSet) {
	fs.String(config.KeySpreadsheetID, "", "Google spreadsheet id (env GOOGLE_SPREADSHEET_ID)")
	fs.String(config.KeySheetRange, tabular.DefaultRange, "Sheet range to read")
	fs.String(config.KeySourceFile, "", "Read rows from a local .csv, .tsv or .parquet export instead of Google Sheets")
	fs.String(config.KeyCollection, ingest.DefaultCollection, "Sub-collection to publish")
}

func addPhotoFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyDriveFolderID, "", "Google Drive root folder id (env GOOGLE_DRIVE_FOLDER_ID)")
	fs.String(config.KeyPhotosDir, "", "Resolve photos against a local mirror of the Drive tree")
	fs.String(config.KeyPhotoBaseURL, "", "Base URL for photos resolved from --photos-dir")
	fs.String(config.KeyThumbnailSize, folder.DefaultThumbnailSize, "Drive thumbnail size hint")
	fs.Duration(config.KeyDelay, pacing.DefaultDelay, "Fixed pause between photo lookups")
	fs.Float64(config.KeyRate, 0, "Token bucket rate in lookups per second (overrides --delay)")
	fs.Int(config.KeyBurst, 1, "Token bucket burst size")
	fs.Bool(config.KeyBoxScans, false, "Also look up box scans in Box Scans/JPEG")
}

func addCommonFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyServiceAccountKey, "", "Service account key JSON or path to it (env GOOGLE_SERVICE_ACCOUNT_KEY)")
	fs.Duration(config.KeyTimeout, folder.DefaultCallTimeout, "Timeout for each external call")
	fs.String(config.KeyReportDir, report.DefaultDir, "Directory for run reports")
}

// newRowSource returns the tabular source and a short description of it.
func newRowSource(ctx context.Context, cfg *config.Config) (tabular.RowSource, string, error) {
	if cfg.SourceFile != "" {
		return tabular.NewFileSource(cfg.SourceFile), cfg.SourceFile, nil
	}

	opts, err := google.CredentialOptions(ctx, cfg.ServiceAccountKey, google.ScopeSheetsReadOnly)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load credentials: %w", err)
	}
	svc, err := google.NewSheetsService(ctx, opts...)
	if err != nil {
		return nil, "", err
	}
	return tabular.NewSheetsSource(svc, cfg.SpreadsheetID, cfg.SheetRange), "sheets:" + cfg.SpreadsheetID, nil
}

// newResolver returns the folder resolver and a short description of its root.
func newResolver(ctx context.Context, cfg *config.Config) (*folder.Resolver, string, error) {
	if cfg.PhotosDir != "" {
		info, err := os.Stat(cfg.PhotosDir)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open photos dir: %w", err)
		}
		if !info.IsDir() {
			return nil, "", fmt.Errorf("photos dir %s is not a directory", cfg.PhotosDir)
		}
		store := folder.NewLocalStore(os.DirFS(cfg.PhotosDir))
		r := folder.NewResolver(store, folder.LocalRoot,
			folder.WithLocator(folder.BaseURLLocator(cfg.PhotoBaseURL)),
			folder.WithCallTimeout(cfg.CallTimeout))
		return r, cfg.PhotosDir, nil
	}

	opts, err := google.CredentialOptions(ctx, cfg.ServiceAccountKey, google.ScopeDriveReadOnly)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load credentials: %w", err)
	}
	svc, err := google.NewDriveService(ctx, opts...)
	if err != nil {
		return nil, "", err
	}
	r := folder.NewResolver(folder.NewGoogleStore(svc), cfg.DriveFolderID,
		folder.WithLocator(folder.ThumbnailLocator(cfg.ThumbnailSize)),
		folder.WithCallTimeout(cfg.CallTimeout))
	return r, "drive:" + cfg.DriveFolderID, nil
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func rule() string {
	return strings.Repeat("=", 70)
}
