// Package folder resolves per-item photo sets inside a hierarchical file
// store (Google Drive or a local mirror of the same tree).
package folder

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// MIME types the resolver cares about.
const (
	MimeTypeFolder = "application/vnd.google-apps.folder"
	MimeTypeJPEG   = "image/jpeg"
	MimeTypePNG    = "image/png"
)

// PhotoMimeTypes are the file types accepted as item photos.
var PhotoMimeTypes = []string{MimeTypeJPEG, MimeTypePNG}

// Node is one child of a folder. It only lives for a single lookup.
type Node struct {
	ID       string
	Name     string
	MimeType string
	ParentID string
}

// IsFolder reports whether the node is a folder.
func (n Node) IsFolder() bool {
	return n.MimeType == MimeTypeFolder
}

// Query selects non-trashed children of one folder.
type Query struct {
	ParentID string

	// Name is an exact, case-sensitive match. Empty means any name.
	Name string

	// NameContains is a substring match on the name.
	NameContains string

	FoldersOnly bool

	// MimeTypes restricts files to these types. Empty means any type.
	MimeTypes []string
}

// String renders the query in Drive's search syntax.
func (q Query) String() string {
	var clauses []string
	if q.Name != "" {
		clauses = append(clauses, fmt.Sprintf("name='%s'", escapeQuery(q.Name)))
	}
	if q.NameContains != "" {
		clauses = append(clauses, fmt.Sprintf("name contains '%s'", escapeQuery(q.NameContains)))
	}
	clauses = append(clauses, fmt.Sprintf("'%s' in parents", escapeQuery(q.ParentID)))
	if q.FoldersOnly {
		clauses = append(clauses, fmt.Sprintf("mimeType='%s'", MimeTypeFolder))
	}
	if len(q.MimeTypes) > 0 {
		types := make([]string, len(q.MimeTypes))
		for i, mt := range q.MimeTypes {
			types[i] = fmt.Sprintf("mimeType='%s'", escapeQuery(mt))
		}
		clauses = append(clauses, "("+strings.Join(types, " or ")+")")
	}
	clauses = append(clauses, "trashed=false")
	return strings.Join(clauses, " and ")
}

// Matches applies the query predicate to a node already known to be a child
// of ParentID.
func (q Query) Matches(n Node) bool {
	if q.Name != "" && n.Name != q.Name {
		return false
	}
	if q.NameContains != "" && !strings.Contains(n.Name, q.NameContains) {
		return false
	}
	if q.FoldersOnly && !n.IsFolder() {
		return false
	}
	if len(q.MimeTypes) > 0 && !slices.Contains(q.MimeTypes, n.MimeType) {
		return false
	}
	return true
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// Store lists folder children. Implementations return nodes ordered by name.
type Store interface {
	List(ctx context.Context, q Query) ([]Node, error)
	Stat(ctx context.Context, id string) (Node, error)
}
