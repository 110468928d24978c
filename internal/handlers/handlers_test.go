package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzle-museum/catalog-sync/internal/catalog"
	"github.com/puzzle-museum/catalog-sync/internal/compose"
	"github.com/puzzle-museum/catalog-sync/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "puzzles.json")
	imagesPath := filepath.Join(dir, "puzzle-images.json")

	records := []catalog.Record{
		{AccessionNo: "2016.001", Item: "Magic Cube", Series: "3x3x3", Origin: "Hungary", Rarity: "R3", Status: "A", Year: "1980"},
		{AccessionNo: "2016.002", Item: "Pyraminx", Series: "Tetrahedra", Origin: "Japan", Rarity: "R2", Status: "L", Year: "1981"},
		{AccessionNo: "2017.001", Item: "Skewb", Series: "Skewb", Origin: "Hungary", Rarity: "R5", Status: "A", Year: "1982"},
	}
	require.NoError(t, catalog.SaveCatalog(catalogPath, records))
	require.NoError(t, catalog.SaveImages(imagesPath, catalog.Images{
		"2016.001": catalog.NewPhotoSet([]string{"https://example.org/a.jpg", "https://example.org/b.jpg"}),
	}))

	store := storage.New(catalogPath, imagesPath)
	_, err := store.Reload()
	require.NoError(t, err)

	server := httptest.NewServer(New(store, dir).Routes())
	t.Cleanup(server.Close)
	return server, dir
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func accessionNumbers(entries []map[string]any) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e["accessionNo"].(string))
	}
	return out
}

func TestHandleCatalog(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name    string
		query   string
		matched int
		want    []string
	}{
		{"everything", "", 3, []string{"2016.001", "2016.002", "2017.001"}},
		{"search", "?q=CUBE", 1, []string{"2016.001"}},
		{"filter", "?origin=Hungary", 2, []string{"2016.001", "2017.001"}},
		{"all filter value", "?origin=all&status=all", 3, []string{"2016.001", "2016.002", "2017.001"}},
		{"rarity sort", "?sort=rarity", 3, []string{"2017.001", "2016.001", "2016.002"}},
		{"limit", "?sort=rarity&limit=1", 3, []string{"2017.001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp struct {
				Total   int              `json:"total"`
				Matched int              `json:"matched"`
				Entries []map[string]any `json:"entries"`
			}
			require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/catalog"+tt.query, &resp))
			assert.Equal(t, 3, resp.Total)
			assert.Equal(t, tt.matched, resp.Matched)
			assert.Equal(t, tt.want, accessionNumbers(resp.Entries))
		})
	}
}

func TestHandleCatalogBadRequest(t *testing.T) {
	server, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, server.URL+"/api/catalog?sort=price", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, server.URL+"/api/catalog?limit=-1", nil))

	resp, err := http.Post(server.URL+"/api/catalog", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleCatalogDetail(t *testing.T) {
	server, _ := newTestServer(t)

	var entry map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/catalog/2016.001", &entry))
	assert.Equal(t, "Magic Cube", entry["item"])
	assert.EqualValues(t, 2, entry["photoCount"])

	var bare map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/catalog/2016.002", &bare))
	assert.NotContains(t, bare, "photos")

	assert.Equal(t, http.StatusNotFound, getJSON(t, server.URL+"/api/catalog/1999.001", nil))
}

func TestHandleFacets(t *testing.T) {
	server, _ := newTestServer(t)

	var facets compose.Facets
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/facets", &facets))
	assert.Equal(t, []string{"Hungary", "Japan"}, facets.Origins)
	assert.Equal(t, []string{"3x3x3", "Skewb", "Tetrahedra"}, facets.Series)
	assert.Equal(t, []string{"A", "L", "M", "X", "XE", "XD", "XS"}, facets.Statuses)
}

func TestHandleReload(t *testing.T) {
	server, dir := newTestServer(t)

	require.NoError(t, catalog.SaveCatalog(filepath.Join(dir, "puzzles.json"), []catalog.Record{{AccessionNo: "2020.001"}}))

	resp, err := http.Get(server.URL + "/api/reload")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(server.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["records"])

	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/catalog/2020.001", nil))
}

func TestHandleStaticAndHealthcheck(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/puzzles.json")
	require.NoError(t, err)
	var records []catalog.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Len(t, records, 3)

	resp, err = http.Get(server.URL + "/missing.json")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(server.URL + "/healthcheck")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthcheckBeforeLoad(t *testing.T) {
	store := storage.New("missing.json", "missing-images.json")
	rec := httptest.NewRecorder()
	New(store, t.TempDir()).HandleHealthcheck(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
