package folder

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"strings"
)

// LocalRoot is the root folder id of a LocalStore.
const LocalRoot = "."

// LocalStore serves a directory tree laid out like the Drive folder.
// Node ids are slash-separated paths relative to the tree root.
type LocalStore struct {
	fsys fs.FS
}

// NewLocalStore creates a store over fsys, typically os.DirFS(dir).
func NewLocalStore(fsys fs.FS) *LocalStore {
	return &LocalStore{fsys: fsys}
}

// List reads one directory. Hidden entries are treated as trashed.
func (s *LocalStore) List(ctx context.Context, q Query) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(s.fsys, q.ParentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", q.ParentID, err)
	}

	var nodes []Node
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		node := Node{
			ID:       path.Join(q.ParentID, entry.Name()),
			Name:     entry.Name(),
			MimeType: localMimeType(entry),
			ParentID: q.ParentID,
		}
		if q.Matches(node) {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// Stat describes one path in the tree.
func (s *LocalStore) Stat(ctx context.Context, id string) (Node, error) {
	if err := ctx.Err(); err != nil {
		return Node{}, err
	}

	info, err := fs.Stat(s.fsys, id)
	if err != nil {
		return Node{}, fmt.Errorf("failed to stat %s: %w", id, err)
	}
	return Node{
		ID:       id,
		Name:     info.Name(),
		MimeType: localMimeType(fs.FileInfoToDirEntry(info)),
		ParentID: path.Dir(id),
	}, nil
}

func localMimeType(entry fs.DirEntry) string {
	if entry.IsDir() {
		return MimeTypeFolder
	}
	mt := mime.TypeByExtension(path.Ext(entry.Name()))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}
