package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdoc/internal/config"
)

func TestFSStore_RoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Put(ctx, "uploads/2026/10/18/a-notes.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "uploads/2026/10/18/a-notes.pdf", key)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	u, err := s.URL(ctx, key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"), u)
	assert.True(t, strings.HasSuffix(u, "a-notes.pdf"), u)
}

func TestFSStore_KeysStayInside(t *testing.T) {
	base := t.TempDir()
	s, err := NewFSStore(base)
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), "")
	require.NoError(t, err)

	p, err := s.resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, base), p)

	_, err = s.Put(context.Background(), "", strings.NewReader("x"), "")
	assert.Error(t, err)
}

func TestArchiveKey(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	key := ArchiveKey("/uploads/", `C:\scans\page 1.png`, now)
	assert.True(t, strings.HasPrefix(key, "uploads/2026/03/04/"), key)
	assert.True(t, strings.HasSuffix(key, "-page 1.png"), key)

	bare := ArchiveKey("", "", now)
	assert.True(t, strings.HasPrefix(bare, "2026/03/04/"), bare)
	assert.True(t, strings.HasSuffix(bare, "-upload"), bare)
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	none, err := New(ctx, config.ArchiveConfig{})
	require.NoError(t, err)
	assert.Nil(t, none)

	fs, err := New(ctx, config.ArchiveConfig{Backend: "fs", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FSStore{}, fs)

	_, err = New(ctx, config.ArchiveConfig{Backend: "gcs"})
	assert.Error(t, err)
}

// fakeS3 records object writes and serves them back, path-style.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Store_PutGetAgainstCompatibleEndpoint(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	s, err := NewS3Store(ctx, S3Config{
		Bucket:          "quizdoc",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	key, err := s.Put(ctx, "uploads/notes.txt", bytes.NewReader([]byte("photosynthesis")), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "uploads/notes.txt", key)

	fake.mu.Lock()
	stored := fake.objects["/quizdoc/uploads/notes.txt"]
	contentType := fake.types["/quizdoc/uploads/notes.txt"]
	fake.mu.Unlock()
	assert.Contains(t, string(stored), "photosynthesis")
	assert.Equal(t, "text/plain", contentType)

	u, err := s.URL(ctx, key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, srv.URL+"/quizdoc/uploads/notes.txt?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}
