// Package blobstore abstracts where uploaded claim documents are kept.
// Production uses S3; tests and local development use the mock store.
package blobstore

import (
	"context"
	"io"
)

// Store persists uploaded documents and returns a URL for each
type Store interface {
	// Upload stores the content under key and returns its public URL
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// Delete removes a previously uploaded object. Used to compensate when
	// a database write fails after the upload succeeded.
	Delete(ctx context.Context, key string) error
}
