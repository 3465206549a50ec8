// Package storage keeps transfer attachments and archived challans in an object store.
package storage

import (
	"context"
	"errors"
	"path"
	"regexp"
	"strings"

	"go-fleet-ws/pkg/config"
)

var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore saves opaque blobs under a key and returns a reference to them.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName reduces an uploaded filename to a single safe path segment.
func SafeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", ErrInvalidKey
	}
	return key, nil
}

// Open returns the configured bucket, or a local directory store when no bucket is set.
func Open(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	if cfg.S3.Enabled() {
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := NewDiskStore(cfg.ObjectDir)
	if err != nil {
		return nil, err
	}
	return store, nil
}
