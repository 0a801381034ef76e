// Package storage stores public assets in an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/redmonkez12/storefront-api/internal/config"
)

// Object describes a stored object.
type Object struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// ObjectStorage is implemented by the S3, MinIO and in-memory drivers.
type ObjectStorage interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// List returns every object under prefix.
	List(ctx context.Context, prefix string) ([]Object, error)
	URL(key string) string
}

// New builds the driver selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return NewS3Storage(ctx, cfg)
	case config.StorageMinIO:
		return NewMinIOStorage(ctx, cfg)
	case config.StorageMemory:
		return NewMemoryStorage(cfg.PublicURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// KeyFromURL recovers the object key from a URL produced by s. ok is false
// when rawURL does not point into s.
func KeyFromURL(s ObjectStorage, rawURL string) (string, bool) {
	base := s.URL("")
	key, ok := strings.CutPrefix(rawURL, base)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Basename returns the last segment of a key or URL.
func Basename(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	return path.Base(ref)
}
