package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// Object describes a stored object.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	URL         string
}

// Bucket defines the interface for the BaaS object store
type Bucket interface {
	// Upload writes content under a new key and reports what was stored; an
	// existing key is apperr.ErrConflict
	Upload(ctx context.Context, key, contentType string, content io.Reader) (*Object, error)

	// PublicURL returns the URL a stored key is served from
	PublicURL(key string) string

	// Delete removes an object; a missing key is apperr.ErrNotFound
	Delete(ctx context.Context, key string) error
}

// JoinURL appends key to a public base URL.
func JoinURL(base, key string) string {
	if base == "" {
		return "/" + strings.TrimPrefix(key, "/")
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimPrefix(key, "/")
}

// CleanKey normalizes an object key and rejects keys escaping the bucket root.
func CleanKey(key string) (string, bool) {
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", false
	}
	return cleaned, true
}
