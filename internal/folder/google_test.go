package folder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/puzzle-museum/catalog-sync/internal/google"
)

// fakeDrive answers files.list by matching the parent and name clauses of q.
type fakeDrive struct {
	children map[string][]*drive.File
	queries  []string

	// ignoreCase matches name clauses case-insensitively
	ignoreCase bool
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if strings.HasSuffix(r.URL.Path, "/files/missing") {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": 404, "message": "File not found: missing."}}`))
		return
	}
	if strings.HasSuffix(r.URL.Path, "/files/root-id") {
		_ = json.NewEncoder(w).Encode(&drive.File{Id: "root-id", Name: "Archive", MimeType: MimeTypeFolder})
		return
	}

	q := r.URL.Query().Get("q")
	f.queries = append(f.queries, q)

	var matched []*drive.File
	for parent, files := range f.children {
		if !strings.Contains(q, "'"+parent+"' in parents") {
			continue
		}
		for _, file := range files {
			if strings.Contains(q, "name='") && !f.nameMatches(q, file.Name) {
				continue
			}
			if strings.Contains(q, "mimeType='"+MimeTypeFolder+"'") && file.MimeType != MimeTypeFolder {
				continue
			}
			if !strings.Contains(q, "mimeType='"+MimeTypeFolder+"'") && file.MimeType == MimeTypeFolder {
				continue
			}
			matched = append(matched, file)
		}
	}
	_ = json.NewEncoder(w).Encode(&drive.FileList{Files: matched})
}

func (f *fakeDrive) nameMatches(q, name string) bool {
	if f.ignoreCase {
		return strings.Contains(strings.ToLower(q), "name='"+strings.ToLower(name)+"'")
	}
	return strings.Contains(q, "name='"+name+"'")
}

func newTestDriveStore(t *testing.T, fake *fakeDrive) *GoogleStore {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return NewGoogleStore(svc)
}

func folderFile(id, name string) *drive.File {
	return &drive.File{Id: id, Name: name, MimeType: MimeTypeFolder}
}

func TestGoogleStoreResolvePhotos(t *testing.T) {
	fake := &fakeDrive{children: map[string][]*drive.File{
		"root-id": {folderFile("all-id", "All")},
		"all-id":  {folderFile("year-id", "2016")},
		"year-id": {folderFile("item-id", "2016.001")},
		"item-id": {
			{Id: "file-a", Name: "a.jpg", MimeType: MimeTypeJPEG},
			{Id: "file-b", Name: "b.png", MimeType: MimeTypePNG},
		},
	}}
	r := NewResolver(newTestDriveStore(t, fake), "root-id")

	photos, err := r.ResolvePhotos(context.Background(), "2016.001")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://drive.google.com/thumbnail?id=file-a&sz=w2000",
		"https://drive.google.com/thumbnail?id=file-b&sz=w2000",
	}, photos)

	require.Len(t, fake.queries, 4, "one lookup per tree level")
	assert.Contains(t, fake.queries[0], "name='All'")
	assert.Contains(t, fake.queries[3], "(mimeType='image/jpeg' or mimeType='image/png')")
	for _, q := range fake.queries {
		assert.Contains(t, q, "trashed=false")
	}
}

func TestGoogleStoreKeepsNameMatchExact(t *testing.T) {
	fake := &fakeDrive{
		ignoreCase: true,
		children: map[string][]*drive.File{
			"root-id":      {folderFile("lower-all-id", "all")},
			"lower-all-id": {folderFile("year-id", "2016")},
			"year-id":      {folderFile("item-id", "2016.001")},
			"item-id":      {{Id: "file-a", Name: "a.jpg", MimeType: MimeTypeJPEG}},
		},
	}
	store := newTestDriveStore(t, fake)

	nodes, err := store.List(context.Background(), Query{ParentID: "root-id", Name: "All", FoldersOnly: true})
	require.NoError(t, err)
	assert.Empty(t, nodes)

	photos, err := NewResolver(store, "root-id").ResolvePhotos(context.Background(), "2016.001")
	require.NoError(t, err)
	assert.Empty(t, photos, "a folder named \"all\" is not the All folder")
}

func TestResolvePhotosWithoutYear(t *testing.T) {
	fake := &fakeDrive{children: map[string][]*drive.File{
		"root-id": {folderFile("all-id", "All")},
		"all-id":  {folderFile("year-id", "2016")},
		"year-id": {folderFile("item-id", ".001")},
		"item-id": {{Id: "file-a", Name: "a.jpg", MimeType: MimeTypeJPEG}},
	}}

	photos, err := NewResolver(newTestDriveStore(t, fake), "root-id").ResolvePhotos(context.Background(), ".001")
	require.NoError(t, err)
	assert.Empty(t, photos)
	assert.Empty(t, fake.queries, "no lookup without a year")
}

func TestGoogleStoreCheck(t *testing.T) {
	store := newTestDriveStore(t, &fakeDrive{})

	assert.NoError(t, NewResolver(store, "root-id").Check(context.Background()))

	err := NewResolver(store, "missing").Check(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, google.ErrNotFound)
}

func TestQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "folder by name",
			query: Query{ParentID: "root", Name: "All", FoldersOnly: true},
			want:  "name='All' and 'root' in parents and mimeType='application/vnd.google-apps.folder' and trashed=false",
		},
		{
			name:  "images",
			query: Query{ParentID: "item", MimeTypes: PhotoMimeTypes},
			want:  "'item' in parents and (mimeType='image/jpeg' or mimeType='image/png') and trashed=false",
		},
		{
			name:  "name contains",
			query: Query{ParentID: "jpeg", NameContains: "2016.001", MimeTypes: []string{MimeTypeJPEG}},
			want:  "name contains '2016.001' and 'jpeg' in parents and (mimeType='image/jpeg') and trashed=false",
		},
		{
			name:  "escaped quotes",
			query: Query{ParentID: "root", Name: `O'Brien\Box`},
			want:  `name='O\'Brien\\Box' and 'root' in parents and trashed=false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.String())
		})
	}
}

func TestQueryMatches(t *testing.T) {
	jpeg := Node{Name: "2016.001-front.jpg", MimeType: MimeTypeJPEG}
	dir := Node{Name: "2016", MimeType: MimeTypeFolder}

	assert.True(t, Query{NameContains: "2016.001"}.Matches(jpeg))
	assert.False(t, Query{Name: "2016.001"}.Matches(jpeg))
	assert.False(t, Query{FoldersOnly: true}.Matches(jpeg))
	assert.True(t, Query{FoldersOnly: true, Name: "2016"}.Matches(dir))
	assert.False(t, Query{MimeTypes: []string{MimeTypePNG}}.Matches(jpeg))
}
