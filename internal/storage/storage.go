package storage

import (
	"context"
	"io"
	"time"
)

// Storage persists uploaded files (profile images, portfolio items,
// verification documents) and serves URLs for them.
type Storage interface {
	// Store saves a file under the given folder and returns the storage key.
	Store(ctx context.Context, folder, filename string, content io.Reader, contentType string) (string, error)

	// Retrieve gets a file by storage key.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by storage key.
	Delete(ctx context.Context, key string) error

	// URL returns a URL for accessing the file: a signed URL for S3, a
	// local file-server path otherwise.
	URL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

// Folders used by the upload endpoint.
const (
	FolderProfiles  = "profiles"
	FolderPortfolio = "portfolio"
	FolderDocuments = "documents"
)
