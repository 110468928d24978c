package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// HandleStatic serves the artifact directory, so the catalog site can fetch
// puzzles.json and puzzle-images.json from the same origin.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")

	// Prevent directory traversal attacks
	if strings.Contains(name, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}
	if name == "" || strings.HasSuffix(name, "/") {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(name, ".json") {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, filepath.FromSlash(name)))
}
