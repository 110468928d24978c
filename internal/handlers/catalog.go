package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/puzzle-museum/catalog-sync/internal/compose"
)

// CatalogResponse is one page of browse results.
type CatalogResponse struct {
	Total   int             `json:"total"`
	Matched int             `json:"matched"`
	Entries []compose.Entry `json:"entries"`
}

// HandleCatalog answers GET /api/catalog?q=&series=&origin=&rarity=&status=&sort=&limit=
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := r.URL.Query()
	key, err := compose.ParseSortKey(params.Get("sort"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := params.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, "Invalid limit: "+raw, http.StatusBadRequest)
			return
		}
	}

	entries := h.store.All()
	matched := compose.Apply(entries, compose.Query{
		Search: strings.TrimSpace(params.Get("q")),
		Filter: compose.Filter{
			Series: params.Get("series"),
			Origin: params.Get("origin"),
			Rarity: params.Get("rarity"),
			Status: params.Get("status"),
		},
		Sort: key,
	})

	resp := CatalogResponse{
		Total:   len(entries),
		Matched: len(matched),
		Entries: matched,
	}
	if limit > 0 && len(resp.Entries) > limit {
		resp.Entries = resp.Entries[:limit]
	}
	h.writeJSON(w, resp)
}

// HandleCatalogDetail answers GET /api/catalog/{accessionNo}
func (h *Handler) HandleCatalogDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accessionNo := strings.TrimPrefix(r.URL.Path, "/api/catalog/")
	entry, ok := h.store.Get(accessionNo)
	if !ok {
		h.writeError(w, "Puzzle not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, entry)
}

func (h *Handler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, compose.BuildFacets(h.store.All()))
}

// HandleReload re-reads the artifacts after a sync run.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := h.store.Reload()
	if err != nil {
		h.writeError(w, "Failed to reload catalog: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]any{
		"records":  n,
		"loadedAt": h.store.LoadedAt().UTC().Format(time.RFC3339),
	})
}
