package storage

import (
	"context"

	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/pkg/config"
	"audio-translator/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// MetadataChecksum is the object metadata key carrying the source sha256.
const MetadataChecksum = "sha256"

// NewObjectStore picks the backend named by STORAGE_BACKEND. awsCfg is only
// read for the s3 backend.
func NewObjectStore(ctx context.Context, cfg *config.Config, awsCfg aws.Config) (repositories.ObjectStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendS3:
		return NewS3Storage(awsCfg), nil
	case config.BackendMinIO:
		m := cfg.Storage.MinIO
		store, err := NewMinIOStorage(m.Endpoint, m.AccessKey, m.SecretKey, cfg.AWS.Region, m.UseSSL)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBuckets(ctx, cfg.Storage.ProdBucket, cfg.Storage.BetaBucket); err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendLocal:
		return NewLocalStorage(cfg.Storage.LocalDir), nil
	default:
		return nil, errors.ErrConfiguration("unsupported STORAGE_BACKEND: " + cfg.Storage.Backend)
	}
}
