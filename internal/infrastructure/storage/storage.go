// Package storage keeps letter attachments and rendered artifacts in object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pulosarok/desa/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned by Get and Stat when the key does not exist
var ErrObjectNotFound = errors.New("object not found")

// sniffLen is how many leading bytes Stat reads to detect the content type
const sniffLen = 3072

// ObjectInfo describes a stored object as the backend holds it
type ObjectInfo struct {
	Size int64
	// ContentType is detected from the stored bytes, never taken from the uploader
	ContentType string
}

// Store is the object storage contract shared by the S3 and filesystem backends
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignUpload returns a URL the client can PUT the object to until the returned time
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, time.Time, error)
	// PresignDownload returns a URL the client can GET the object from until the returned time
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}

// New builds the backend selected by cfg.Backend. signingKey signs filesystem URLs.
func New(ctx context.Context, cfg *config.StorageConfig, signingKey string, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "s3":
		s, err := NewS3Store(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("using s3 object storage", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))
		return s, nil
	case "", "filesystem":
		s, err := NewLocalStore(cfg.LocalDir, cfg.PublicURL, []byte(signingKey), cfg.PresignExpiry)
		if err != nil {
			return nil, err
		}
		logger.Info("using filesystem object storage", zap.String("dir", cfg.LocalDir))
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// detectContentType returns the media type of head without parameters
func detectContentType(head []byte) string {
	mt := mimetype.Detect(head).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

func checkKey(key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
