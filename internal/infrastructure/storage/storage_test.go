package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pulosarok/desa/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "http://localhost/api/v1/files", []byte("secret"), time.Minute)
	require.NoError(t, err)

	key := "tenant/letters/abc/pdf/hash.pdf"
	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, s.Put(ctx, key, []byte("%PDF-1.7"), "application/pdf"))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "", []byte("secret"), 0)
	require.NoError(t, err)

	err = s.Put(context.Background(), "", []byte("x"), "")
	assert.Error(t, err)

	// cleaned keys stay inside the root
	require.NoError(t, s.Put(context.Background(), "../../etc/passwd", []byte("x"), ""))
	data, err := s.Get(context.Background(), "etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestLocalStore_SignedURLs(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "http://localhost/api/v1/files/", []byte("secret"), time.Minute)
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	raw, expires, err := s.PresignDownload(context.Background(), "t/a.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), expires)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/t/a.pdf", u.Path)
	q := u.Query()
	assert.Equal(t, "GET", q.Get("method"))

	assert.NoError(t, s.Verify("GET", "t/a.pdf", q.Get("expires"), q.Get("signature")))
	assert.ErrorIs(t, s.Verify("PUT", "t/a.pdf", q.Get("expires"), q.Get("signature")), ErrInvalidSignature)
	assert.ErrorIs(t, s.Verify("GET", "t/b.pdf", q.Get("expires"), q.Get("signature")), ErrInvalidSignature)
	assert.ErrorIs(t, s.Verify("GET", "t/a.pdf", "abc", q.Get("signature")), ErrInvalidSignature)

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, s.Verify("GET", "t/a.pdf", q.Get("expires"), q.Get("signature")), ErrInvalidSignature)
}

func TestLocalStore_UploadURLUsesPutMethod(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "http://files", []byte("k"), time.Minute)
	require.NoError(t, err)

	raw, _, err := s.PresignUpload(context.Background(), "t/upload.png", "image/png", time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.NoError(t, s.Verify("PUT", "t/upload.png", u.Query().Get("expires"), u.Query().Get("signature")))
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	cfg := &config.StorageConfig{Backend: "filesystem", LocalDir: t.TempDir(), PublicURL: "http://x"}
	s, err := New(ctx, cfg, "secret", zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(ctx, &config.StorageConfig{Backend: "ftp"}, "secret", zap.NewNop())
	assert.Error(t, err)
}

// fakeS3 serves the path-style subset of the S3 API the store uses
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	ranges  []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	if len(parts) == 1 || parts[1] == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			f.buckets[bucket] = true
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	key := bucket + "/" + parts[1]
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		if rng := r.Header.Get("Range"); rng != "" {
			f.ranges = append(f.ranges, rng)
			var start, end int
			if _, err := fmt.Sscanf(rng, "bytes=%d-%d", &start, &end); err == nil && end+1 < len(data) {
				data = data[start : end+1]
			}
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			w.WriteHeader(http.StatusPartialContent)
		}
		_, _ = w.Write(data)
	case http.MethodHead:
		data, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	}
}

func TestS3Store_AgainstFakeServer(t *testing.T) {
	fake := &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	cfg := &config.StorageConfig{
		Backend:       "s3",
		Endpoint:      srv.URL,
		Region:        "us-east-1",
		Bucket:        "desa",
		AccessKey:     "test",
		SecretKey:     "test-secret",
		UsePathStyle:  true,
		PresignExpiry: time.Minute,
	}
	s, err := NewS3Store(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, fake.buckets["desa"])

	require.NoError(t, s.Put(ctx, "t/a.pdf", []byte("pdf"), "application/pdf"))
	ok, err := s.Exists(ctx, "t/a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.Get(ctx, "t/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))

	_, err = s.Get(ctx, "t/missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, s.Delete(ctx, "t/a.pdf"))
	ok, err = s.Exists(ctx, "t/a.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	raw, _, err := s.PresignDownload(ctx, "t/a.pdf", 0)
	require.NoError(t, err)
	assert.Contains(t, raw, "/desa/t/a.pdf")
	assert.Contains(t, raw, "X-Amz-Signature=")
}

func TestS3Store_Stat(t *testing.T) {
	fake := &fakeS3{buckets: map[string]bool{"desa": true}, objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	s, err := NewS3Store(ctx, &config.StorageConfig{
		Endpoint:     srv.URL,
		Region:       "us-east-1",
		Bucket:       "desa",
		AccessKey:    "test",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)

	pdf := append([]byte("%PDF-1.7\n"), make([]byte, 10000)...)
	require.NoError(t, s.Put(ctx, "t/scan.pdf", pdf, "image/png"))

	info, err := s.Stat(ctx, "t/scan.pdf")
	require.NoError(t, err)
	assert.EqualValues(t, len(pdf), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType, "detected from the bytes, not the declared type")
	require.Len(t, fake.ranges, 1)
	assert.Equal(t, "bytes=0-3071", fake.ranges[0])

	_, err = s.Stat(ctx, "t/missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStore_Stat(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "", []byte("secret"), 0)
	require.NoError(t, err)

	_, err = s.Stat(ctx, "t/none.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	require.NoError(t, s.Put(ctx, "t/a.pdf", png, "application/pdf"))
	info, err := s.Stat(ctx, "t/a.pdf")
	require.NoError(t, err)
	assert.EqualValues(t, len(png), info.Size)
	assert.Equal(t, "image/png", info.ContentType)

	require.NoError(t, s.Put(ctx, "t/note.txt", []byte("catatan rapat"), ""))
	info, err = s.Stat(ctx, "t/note.txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", info.ContentType, "parameters are dropped")
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), &config.StorageConfig{Region: "us-east-1"})
	assert.Error(t, err)
}
