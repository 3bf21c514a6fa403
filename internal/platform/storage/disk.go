package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore is the narrow boundary to the external image storage system.
// Implementations return an opaque reference that is persisted on the
// challenge or participation record.
type ImageStore interface {
	Save(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, ref string) error
}

// DiskImageStore keeps uploaded images on the local filesystem under a
// single directory, keyed by a generated object name.
type DiskImageStore struct {
	dir string
}

func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage.NewDiskImageStore: %w", err)
	}
	return &DiskImageStore{dir: dir}, nil
}

func (s *DiskImageStore) Save(_ context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	ref := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("DiskImageStore.Save create: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("DiskImageStore.Save copy: %w", err)
	}
	return ref, nil
}

func (s *DiskImageStore) Remove(_ context.Context, ref string) error {
	// Refs are generated server-side, but never trust one with path parts.
	if ref != filepath.Base(ref) {
		return fmt.Errorf("DiskImageStore.Remove: invalid ref %q", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("DiskImageStore.Remove: %w", err)
	}
	return nil
}
