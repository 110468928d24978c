package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/puzzle-museum/catalog-sync/internal/storage"
)

type Handler struct {
	store     *storage.CatalogStore
	staticDir string
}

// New creates a handler serving store and the files under staticDir.
func New(store *storage.CatalogStore, staticDir string) *Handler {
	return &Handler{
		store:     store,
		staticDir: staticDir,
	}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/catalog", h.HandleCatalog)
	mux.HandleFunc("/api/catalog/", h.HandleCatalogDetail)
	mux.HandleFunc("/api/facets", h.HandleFacets)
	mux.HandleFunc("/api/reload", h.HandleReload)
	mux.HandleFunc("/healthcheck", h.HandleHealthcheck)
	mux.HandleFunc("/", h.HandleStatic)
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug(message, "code", code)
	}
	http.Error(w, message, code)
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if h.store.LoadedAt().IsZero() {
		h.writeError(w, "Catalog not loaded", http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}
