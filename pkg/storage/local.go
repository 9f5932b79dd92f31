package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore stores files on the local filesystem
type LocalStore struct {
	basePath string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	return &LocalStore{basePath: abs}, nil
}

// containedPath verifies that path stays inside basePath.
func (s *LocalStore) containedPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.basePath, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, s.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	return abs, nil
}

func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	fullPath, err := s.containedPath(name)
	if err != nil {
		return "", err
	}

	// O_EXCL: generated names never collide, so an existing file is a bug
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fullPath, nil
}

func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := s.containedPath(path)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

func (s *LocalStore) Delete(ctx context.Context, path string) (bool, error) {
	fullPath, err := s.containedPath(path)
	if err != nil {
		return false, err
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete file: %w", err)
	}
	return true, nil
}
