package security

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/storage"

	"github.com/google/uuid"
)

// SavedFile describes an attachment written to the store.
type SavedFile struct {
	Path        string
	Size        int64
	ContentType string
}

// FileIntake validates uploads against the attachment policy and persists them.
type FileIntake struct {
	store         storage.Store
	verifyContent bool
}

func NewFileIntake(store storage.Store, verifyContent bool) *FileIntake {
	return &FileIntake{store: store, verifyContent: verifyContent}
}

// Save checks the declared metadata, reads at most MaxUploadSize+1 bytes to
// confirm the real size, and writes the file as {prefix}_{uuid}{ext}.
// Policy failures are returned as *PolicyError.
func (f *FileIntake) Save(ctx context.Context, filename string, size int64, contentType string, r io.Reader, prefix string) (*SavedFile, error) {
	result := ValidateFile(filename, size, contentType)
	if !result.Valid {
		return nil, &PolicyError{Message: result.Error}
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return nil, policyError("File size too large. Maximum allowed: %.1fMB", float64(MaxUploadSize)/(1<<20))
	}

	if f.verifyContent {
		sniffed := VerifyContent(result.Extension, data)
		if !sniffed.Valid {
			logger.Log.Warnw("Upload content mismatch", "filename", filename, "detected", sniffed.DetectedMIME)
			return nil, &PolicyError{Message: sniffed.Error}
		}
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	name := fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ext)

	path, err := f.store.Save(ctx, name, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	return &SavedFile{
		Path:        path,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// Open returns the stored attachment content.
func (f *FileIntake) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return f.store.Open(ctx, path)
}

// Delete removes a stored attachment; absent files report false without error.
func (f *FileIntake) Delete(ctx context.Context, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	return f.store.Delete(ctx, path)
}
