package storage

import (
	"sync"
	"time"

	"github.com/puzzle-museum/catalog-sync/internal/compose"
)

// CatalogStore holds the merged catalog served over HTTP. Reload swaps the
// whole snapshot, so readers never see a half-loaded catalog.
type CatalogStore struct {
	catalogPath string
	imagesPath  string

	entries  []compose.Entry
	byAccNo  map[string]int
	loadedAt time.Time
	mu       sync.RWMutex
}

func New(catalogPath, imagesPath string) *CatalogStore {
	return &CatalogStore{
		catalogPath: catalogPath,
		imagesPath:  imagesPath,
		byAccNo:     make(map[string]int),
	}
}

// Reload reads both artifacts again. On failure the previous snapshot stays.
func (s *CatalogStore) Reload() (int, error) {
	entries, err := compose.Load(s.catalogPath, s.imagesPath)
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, seen := index[e.AccessionNo]; !seen {
			index[e.AccessionNo] = i
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.byAccNo = index
	s.loadedAt = time.Now()
	return len(entries), nil
}

// All returns the current snapshot. Callers must not modify it.
func (s *CatalogStore) All() []compose.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

func (s *CatalogStore) Get(accessionNo string) (compose.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, exists := s.byAccNo[accessionNo]
	if !exists {
		return compose.Entry{}, false
	}
	return s.entries[i], true
}

func (s *CatalogStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
