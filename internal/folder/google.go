package folder

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/drive/v3"

	"github.com/puzzle-museum/catalog-sync/internal/google"
)

const listFields = "nextPageToken, files(id, name, mimeType, parents)"

// GoogleStore lists folders through the Drive v3 API.
type GoogleStore struct {
	svc *drive.Service
}

// NewGoogleStore wraps an authenticated Drive service.
func NewGoogleStore(svc *drive.Service) *GoogleStore {
	return &GoogleStore{svc: svc}
}

// List runs one files.list query, following page tokens, and re-checks
// every result against q.
func (s *GoogleStore) List(ctx context.Context, q Query) ([]Node, error) {
	query := q.String()
	slog.Debug("Listing Drive folder", "query", query)

	var nodes []Node
	err := s.svc.Files.List().
		Q(query).
		Fields(listFields).
		OrderBy("name").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				// Drive name matching is looser than Query's exact match
				if node := fileNode(f, q.ParentID); q.Matches(node) {
					nodes = append(nodes, node)
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", q.ParentID, google.WrapError(err))
	}
	return nodes, nil
}

// Stat fetches one file or folder by id.
func (s *GoogleStore) Stat(ctx context.Context, id string) (Node, error) {
	f, err := s.svc.Files.Get(id).
		Fields("id, name, mimeType, parents").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Node{}, fmt.Errorf("failed to get %s: %w", id, google.WrapError(err))
	}
	return fileNode(f, ""), nil
}

func fileNode(f *drive.File, parentID string) Node {
	if parentID == "" && len(f.Parents) > 0 {
		parentID = f.Parents[0]
	}
	return Node{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		ParentID: parentID,
	}
}
