package model

import (
	"context"
	"io"
)

// Storage is an object store for uploaded images. Keys are bucket-relative.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, reader io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}
