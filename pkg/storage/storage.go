// Package storage keeps uploaded attachments on the local filesystem or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"io"
)

// Store is the attachment backend. Paths returned by Save are opaque references
// that are only ever handed back to the same Store.
type Store interface {
	// Save writes the full content under name and returns its storage path.
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes the object. It reports false without error when nothing was there.
	Delete(ctx context.Context, path string) (bool, error)
}
