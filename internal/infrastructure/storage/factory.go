package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
)

// ObjectStore is the contract shared by every provider
type ObjectStore interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
}

var (
	_ ObjectStore = (*S3Storage)(nil)
	_ ObjectStore = (*MemoryStorage)(nil)
)

// New returns the store selected by storage.provider. For s3 the bucket is
// created when missing.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	switch cfg.Provider {
	case "", "stub":
		logger.Warn("using in-memory object storage, uploads are lost on restart")
		return NewMemoryStorage(), nil
	case "s3":
		s, err := NewS3Storage(ctx, cfg, WithS3Logger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("object storage ready", zap.String("bucket", s.Bucket()))
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Provider)
	}
}
