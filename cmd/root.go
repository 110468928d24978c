package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/puzzle-museum/catalog-sync/internal/synccmd"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "catalog-sync",
		Short: "Sync a puzzle collection catalog from Google Sheets and Drive",
		Long: `catalog-sync builds the static data files behind a museum catalog site.

The metadata pass reads the catalog spreadsheet and writes puzzles.json.
The photo pass finds each item's photo folder in Google Drive and writes
puzzle-images.json. Both passes replace their artifact only when they succeed.

Settings come from flags, environment variables (a .env file is loaded if
present) or a config file passed with --config.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			// stderr keeps query output on stdout clean
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String(synccmd.ConfigFlag, "", "Config file (yaml, json or toml)")

	// Add subcommands
	cmd.AddCommand(synccmd.NewSheetsCmd())
	cmd.AddCommand(synccmd.NewPhotosCmd())
	cmd.AddCommand(synccmd.NewAllCmd())
	cmd.AddCommand(synccmd.NewQueryCmd())
	cmd.AddCommand(synccmd.NewExportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
