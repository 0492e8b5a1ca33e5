package storage

import (
	"context"
	"io"
	"time"
)

// DocumentStorage is the object store behind uploaded documents (business
// licenses, beneficiary certificates, tax receipts, ESG reports). Entities
// keep only the object key; bytes never pass through the API server except
// for the local mock backend.
type DocumentStorage interface {
	// GeneratePresignedUploadURL returns a URL the client PUTs the file to.
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a short-lived read URL for key.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	DeleteFile(ctx context.Context, key string) error
}

// LocalStorage is implemented by backends whose presigned URLs point back at
// this server, so the HTTP layer must accept and serve the bytes itself.
type LocalStorage interface {
	DocumentStorage
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}
