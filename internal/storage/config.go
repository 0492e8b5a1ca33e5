package storage

import (
	"context"
	"fmt"

	"donation-matching-backend/internal/config"
)

// New builds the document storage backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (DocumentStorage, error) {
	switch cfg.Type {
	case "", "mock":
		return NewMockStorageService(cfg.BaseURL, cfg.UploadDir)
	case "s3":
		return NewS3Storage(ctx, cfg.Bucket, cfg.Region)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
