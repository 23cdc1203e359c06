package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignature is returned by Verify for tampered or expired URLs
var ErrInvalidSignature = errors.New("invalid or expired signature")

// LocalStore implements Store on the local filesystem. Presigned URLs point at
// PublicURL and carry an HMAC that the file handler checks with Verify.
type LocalStore struct {
	root       string
	publicURL  string
	secret     []byte
	presignTTL time.Duration
	now        func() time.Time
}

// NewLocalStore creates root if needed
func NewLocalStore(root, publicURL string, secret []byte, presignTTL time.Duration) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("storage directory is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &LocalStore{
		root:       abs,
		publicURL:  strings.TrimRight(publicURL, "/"),
		secret:     secret,
		presignTTL: presignTTL,
		now:        time.Now,
	}, nil
}

// path maps key into root and rejects keys that escape it
func (s *LocalStore) path(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	clean := filepath.Clean("/" + key)
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage key %q escapes the storage root", key)
	}
	return full, nil
}

// Put writes data atomically under key
func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write object %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close object %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("store object %s: %w", key, err)
	}
	return nil
}

// Get reads the object stored under key
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// Exists reports whether key is present
func (s *LocalStore) Exists(_ context.Context, key string) (bool, error) {
	full, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Stat returns the size and detected content type of key
func (s *LocalStore) Stat(_ context.Context, key string) (*ObjectInfo, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return &ObjectInfo{Size: st.Size(), ContentType: detectContentType(head[:n])}, nil
}

// Delete removes key. Deleting a missing key succeeds.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PresignUpload returns a signed PUT URL served by the file handler
func (s *LocalStore) PresignUpload(_ context.Context, key, _ string, ttl time.Duration) (string, time.Time, error) {
	return s.sign("PUT", key, ttl)
}

// PresignDownload returns a signed GET URL served by the file handler
func (s *LocalStore) PresignDownload(_ context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	return s.sign("GET", key, ttl)
}

func (s *LocalStore) sign(method, key string, ttl time.Duration) (string, time.Time, error) {
	if _, err := s.path(key); err != nil {
		return "", time.Time{}, err
	}
	if ttl <= 0 {
		ttl = s.presignTTL
	}
	expires := s.now().Add(ttl).Truncate(time.Second)
	q := url.Values{}
	q.Set("method", method)
	q.Set("expires", strconv.FormatInt(expires.Unix(), 10))
	q.Set("signature", s.mac(method, key, expires.Unix()))
	return s.publicURL + "/" + key + "?" + q.Encode(), expires, nil
}

// Verify checks the query parameters of a signed URL for method and key
func (s *LocalStore) Verify(method, key, expires, signature string) error {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	if s.now().Unix() > exp {
		return ErrInvalidSignature
	}
	want := s.mac(method, key, exp)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func (s *LocalStore) mac(method, key string, expires int64) string {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%s\n%s\n%d", method, key, expires)
	return hex.EncodeToString(h.Sum(nil))
}

var _ Store = (*LocalStore)(nil)
