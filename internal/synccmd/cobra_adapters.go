package synccmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/puzzle-museum/catalog-sync/internal/compose"
)

// NewSheetsCmd creates the sheets command for the metadata pass
func NewSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Sync catalog metadata from Google Sheets",
		Long: `Fetch the catalog spreadsheet, normalize and enrich every row, keep only
the configured sub-collection and write the catalog artifact.

The artifact is replaced in one step at the end of the run; a failed run
leaves the previous file untouched.`,
		Example: `  # Sync from Google Sheets using GOOGLE_SPREADSHEET_ID and GOOGLE_SERVICE_ACCOUNT_KEY
  catalog-sync sheets

  # Sync from a local CSV export
  catalog-sync sheets --source-file ./exports/catalog.csv --output-dir ./public/data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			_, err = executeSheets(cmd.Context(), cfg)
			return err
		},
	}

	addSheetFlags(cmd.Flags())
	addOutputFlags(cmd.Flags())
	addCommonFlags(cmd.Flags())
	return cmd
}

// NewPhotosCmd creates the photos command for the photo pass
func NewPhotosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "Sync item photos from Google Drive",
		Long: `Read the catalog artifact and, for every record flagged as having photos,
look up its photo folder (All/<year>/<accession number>) in the Drive tree.
Lookups run one at a time with a pause between them.

Records whose photos cannot be found are counted and reported, never
treated as errors. Only setup problems (credentials, root folder) fail the
command.`,
		Example: `  # Sync photos from Drive using GOOGLE_DRIVE_FOLDER_ID
  catalog-sync photos

  # Include box scans and use a token bucket instead of a fixed delay
  catalog-sync photos --box-scans --rate 5 --burst 2

  # Resolve against a local mirror of the Drive tree
  catalog-sync photos --photos-dir ./archive --photo-base-url https://photos.example.org/archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			_, err = executePhotos(cmd.Context(), cfg, nil)
			return err
		},
	}

	addPhotoFlags(cmd.Flags())
	addOutputFlags(cmd.Flags())
	addCommonFlags(cmd.Flags())
	return cmd
}

// NewAllCmd creates the all command running both passes in order
func NewAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run the metadata pass, then the photo pass",
		Long: `Run "sheets" and then "photos" with the same configuration. The photo pass
works from the records the metadata pass just produced.`,
		Example: `  catalog-sync all --box-scans`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequirePhotoSource(); err != nil {
				return err
			}

			result, err := executeSheets(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			_, err = executePhotos(cmd.Context(), cfg, result.Records)
			return err
		},
	}

	addSheetFlags(cmd.Flags())
	addPhotoFlags(cmd.Flags())
	addOutputFlags(cmd.Flags())
	addCommonFlags(cmd.Flags())
	return cmd
}

// NewQueryCmd creates the query command for browsing the merged catalog
func NewQueryCmd() *cobra.Command {
	var (
		opts     queryOptions
		sortFlag string
	)

	cmd := &cobra.Command{
		Use:   "query [search]",
		Short: "Search, filter and sort the merged catalog",
		Long: `Merge the catalog and images artifacts the way the catalog site does and
apply its search, filter and sort rules. A missing images artifact is not an
error; records are shown without photos.`,
		Example: `  # Everything by Mèffert, rarest first
  catalog-sync query meffert --sort rarity

  # Active items of one series as JSON
  catalog-sync query --series "3x3x3" --status A --format json

  # Values available to the filters
  catalog-sync query --facets`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}

			key, err := compose.ParseSortKey(sortFlag)
			if err != nil {
				return err
			}
			opts.Query.Sort = key
			if len(args) == 1 {
				opts.Query.Search = args[0]
			}

			return executeQuery(cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Query.Filter.Series, "series", compose.All, "Filter by series")
	cmd.Flags().StringVar(&opts.Query.Filter.Origin, "origin", compose.All, "Filter by origin")
	cmd.Flags().StringVar(&opts.Query.Filter.Rarity, "rarity", compose.All, "Filter by rarity code (R1-R6)")
	cmd.Flags().StringVar(&opts.Query.Filter.Status, "status", compose.All, "Filter by status code")
	cmd.Flags().StringVar(&sortFlag, "sort", string(compose.SortAccession), "Sort by accession, year, rarity or name")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of results (0 for all)")
	cmd.Flags().StringVar(&opts.Format, "format", "table", "Output format (table or json)")
	cmd.Flags().BoolVar(&opts.Facets, "facets", false, "Print the filter values instead of records")
	addOutputFlags(cmd.Flags())

	return cmd
}

// NewExportCmd creates the export command writing the merged catalog as Parquet
func NewExportCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export the merged catalog as a Parquet file",
		Example: `  catalog-sync export --output catalog.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}

			n, err := executeExport(cfg, outputPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", n, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "catalog.parquet", "Path of the Parquet file to write")
	addOutputFlags(cmd.Flags())

	return cmd
}
