package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/puzzle-museum/catalog-sync/internal/config"
	"github.com/puzzle-museum/catalog-sync/internal/handlers"
	"github.com/puzzle-museum/catalog-sync/internal/storage"
	"github.com/puzzle-museum/catalog-sync/internal/synccmd"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the merged catalog over HTTP",
		Long: `Starts a read-only JSON API over the catalog artifacts on the specified port.

Endpoints:
  GET  /api/catalog               search, filter and sort (q, series, origin, rarity, status, sort, limit)
  GET  /api/catalog/{accessionNo} one puzzle with its photos
  GET  /api/facets                values offered by the filters
  POST /api/reload                re-read the artifacts after a sync run
  GET  /<file>                    raw files from the output directory`,
		Example: `  # Start server on default port 8888
  catalog-sync serve

  # Serve artifacts from another directory on a custom port
  catalog-sync serve --output-dir ./site/data --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := synccmd.LoadConfig(cmd)
			if err != nil {
				return err
			}

			store := storage.New(cfg.CatalogPath(), cfg.ImagesPath())
			n, err := store.Reload()
			if err != nil {
				return fmt.Errorf("failed to load catalog (run \"catalog-sync sheets\" first): %w", err)
			}
			slog.Info("Loaded catalog", "records", n, "path", cfg.CatalogPath())

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.New(store, cfg.OutputDir).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Catalog API available", "addr", addr, "url", "http://localhost"+addr+"/api/catalog")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().String(config.KeyOutputDir, config.DefaultOutputDir, "Directory holding the catalog artifacts")
	cmd.Flags().String(config.KeyCatalogFile, config.DefaultCatalogFile, "File name of the catalog artifact")
	cmd.Flags().String(config.KeyImagesFile, config.DefaultImagesFile, "File name of the images artifact")

	return cmd
}
