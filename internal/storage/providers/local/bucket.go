// Package local implements storage.Bucket on a filesystem directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/storage"
)

// Bucket stores objects as files under a root directory.
type Bucket struct {
	fs        afero.Fs
	publicURL string
}

// NewBucket creates a bucket rooted at dir on the OS filesystem.
func NewBucket(dir, publicURL string) (*Bucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return NewBucketFs(afero.NewBasePathFs(afero.NewOsFs(), dir), publicURL), nil
}

// NewBucketFs creates a bucket over an arbitrary filesystem.
func NewBucketFs(fs afero.Fs, publicURL string) *Bucket {
	return &Bucket{fs: fs, publicURL: publicURL}
}

var _ storage.Bucket = (*Bucket)(nil)

func (b *Bucket) Upload(ctx context.Context, key, contentType string, content io.Reader) (*storage.Object, error) {
	cleaned, ok := storage.CleanKey(key)
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, apperr.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cleaned); dir != "." {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := b.fs.OpenFile(cleaned, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("object %s: %w", cleaned, apperr.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create object: %w", err)
	}
	size, copyErr := io.Copy(f, content)
	closeErr := f.Close()
	if copyErr != nil {
		_ = b.fs.Remove(cleaned)
		return nil, fmt.Errorf("failed to write object: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to write object: %w", closeErr)
	}

	return &storage.Object{
		Key:         cleaned,
		Size:        size,
		ContentType: contentType,
		URL:         b.PublicURL(cleaned),
	}, nil
}

func (b *Bucket) PublicURL(key string) string {
	return storage.JoinURL(b.publicURL, key)
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	cleaned, ok := storage.CleanKey(key)
	if !ok {
		return fmt.Errorf("key %q: %w", key, apperr.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.fs.Remove(cleaned)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("object %s: %w", cleaned, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
