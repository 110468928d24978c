package folder

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Folder names of the photo archive layout.
const (
	AllFolderName      = "All"
	BoxScansFolderName = "Box Scans"
	BoxScansJPEGFolder = "JPEG"
)

const (
	DefaultThumbnailSize = "w2000"
	DefaultCallTimeout   = 30 * time.Second
)

// Locator turns a resolved file into a public URL.
type Locator func(n Node) string

// ThumbnailLocator builds Drive thumbnail URLs with a fixed size hint.
func ThumbnailLocator(size string) Locator {
	if size == "" {
		size = DefaultThumbnailSize
	}
	return func(n Node) string {
		return "https://drive.google.com/thumbnail?id=" + url.QueryEscape(n.ID) + "&sz=" + url.QueryEscape(size)
	}
}

// BaseURLLocator joins the node id (a relative path for LocalStore) onto base.
func BaseURLLocator(base string) Locator {
	return func(n Node) string {
		u, err := url.JoinPath(base, n.ID)
		if err != nil {
			return strings.TrimSuffix(base, "/") + "/" + n.ID
		}
		return u
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocator overrides the thumbnail locator.
func WithLocator(l Locator) Option {
	return func(r *Resolver) {
		r.locate = l
	}
}

// WithCallTimeout bounds every single store call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// Resolver finds the photos of one accession number under a root folder.
type Resolver struct {
	store   Store
	rootID  string
	locate  Locator
	timeout time.Duration
}

// NewResolver creates a resolver rooted at rootID.
func NewResolver(store Store, rootID string, opts ...Option) *Resolver {
	r := &Resolver{
		store:   store,
		rootID:  rootID,
		locate:  ThumbnailLocator(DefaultThumbnailSize),
		timeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check verifies that the root folder exists and is readable.
func (r *Resolver) Check(ctx context.Context) error {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	node, err := r.store.Stat(ctx, r.rootID)
	if err != nil {
		return fmt.Errorf("failed to access root folder %s: %w", r.rootID, err)
	}
	if !node.IsFolder() {
		return fmt.Errorf("root %s is not a folder (%s)", r.rootID, node.MimeType)
	}
	return nil
}

// ResolvePhotos walks root → [All] → year → accession and returns the photo
// locators ordered by file name. A missing year or accession folder yields an
// empty result; store failures are returned.
func (r *Resolver) ResolvePhotos(ctx context.Context, accessionNo string) ([]string, error) {
	if accessionNo == "" {
		return []string{}, nil
	}
	year, _, _ := strings.Cut(accessionNo, ".")
	if year == "" {
		slog.Debug("Accession number has no year", "accession_no", accessionNo)
		return []string{}, nil
	}

	parentID := r.rootID
	all, ok, err := r.findFolder(ctx, parentID, AllFolderName)
	if err != nil {
		return nil, err
	}
	if ok {
		parentID = all.ID
	}

	yearFolder, ok, err := r.findFolder(ctx, parentID, year)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Debug("Year folder not found", "accession_no", accessionNo, "year", year)
		return []string{}, nil
	}

	itemFolder, ok, err := r.findFolder(ctx, yearFolder.ID, accessionNo)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Debug("Accession folder not found", "accession_no", accessionNo)
		return []string{}, nil
	}

	files, err := r.list(ctx, Query{ParentID: itemFolder.ID, MimeTypes: PhotoMimeTypes})
	if err != nil {
		return nil, err
	}
	sortByName(files)

	photos := make([]string, 0, len(files))
	for _, f := range files {
		photos = append(photos, r.locate(f))
	}
	slog.Debug("Resolved photos", "accession_no", accessionNo, "count", len(photos))
	return photos, nil
}

// ResolveBoxScan looks in root → Box Scans → JPEG for the first JPEG whose
// name contains the accession number. Any failure counts as no scan.
func (r *Resolver) ResolveBoxScan(ctx context.Context, accessionNo string) (string, bool) {
	if accessionNo == "" {
		return "", false
	}

	locator, ok, err := r.resolveBoxScan(ctx, accessionNo)
	if err != nil {
		slog.Debug("Box scan lookup failed", "accession_no", accessionNo, "error", err)
		return "", false
	}
	return locator, ok
}

func (r *Resolver) resolveBoxScan(ctx context.Context, accessionNo string) (string, bool, error) {
	scans, ok, err := r.findFolder(ctx, r.rootID, BoxScansFolderName)
	if err != nil || !ok {
		return "", false, err
	}

	jpeg, ok, err := r.findFolder(ctx, scans.ID, BoxScansJPEGFolder)
	if err != nil || !ok {
		return "", false, err
	}

	files, err := r.list(ctx, Query{
		ParentID:     jpeg.ID,
		NameContains: accessionNo,
		MimeTypes:    []string{MimeTypeJPEG},
	})
	if err != nil || len(files) == 0 {
		return "", false, err
	}
	sortByName(files)
	return r.locate(files[0]), true, nil
}

// findFolder returns the first child folder named exactly name.
func (r *Resolver) findFolder(ctx context.Context, parentID, name string) (Node, bool, error) {
	nodes, err := r.list(ctx, Query{ParentID: parentID, Name: name, FoldersOnly: true})
	if err != nil {
		return Node{}, false, fmt.Errorf("failed to look up folder %q: %w", name, err)
	}
	if len(nodes) == 0 {
		return Node{}, false, nil
	}
	return nodes[0], true, nil
}

func (r *Resolver) list(ctx context.Context, q Query) ([]Node, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()
	return r.store.List(ctx, q)
}

func (r *Resolver) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func sortByName(nodes []Node) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		return strings.Compare(a.Name, b.Name)
	})
}
