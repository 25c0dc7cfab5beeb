// Package images exposes the image storage operations over HTTP.
package images

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/snapvault/service/internal/storage"
)

// Service mediates between HTTP handlers and the storage backend. It owns
// the temp-file spooling the backend's Save contract requires.
type Service struct {
	store storage.Adapter
}

// NewService creates a new images Service.
func NewService(store storage.Adapter) *Service {
	return &Service{store: store}
}

// Upload spools the incoming stream to a temp file, hands it to the storage
// backend, and returns the stored image's public URL.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader, targetDir string) (string, error) {
	tmp, err := os.CreateTemp("", "snapvault-upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return s.store.Save(ctx, storage.Image{Name: fileName, Path: tmp.Name()}, targetDir)
}

// Exists reports whether the named file is present in the backend.
func (s *Service) Exists(ctx context.Context, fileName, targetDir string) bool {
	return s.store.Exists(ctx, fileName, targetDir)
}

// Read returns the raw bytes of the stored object at path.
func (s *Service) Read(ctx context.Context, path string) ([]byte, error) {
	return s.store.Read(ctx, storage.ReadOptions{Path: path})
}

// Delete removes the named file from the backend. Backends without
// delete support return a *storage.Error with status 400.
func (s *Service) Delete(ctx context.Context, fileName, targetDir string) error {
	return s.store.Delete(ctx, fileName, targetDir)
}
