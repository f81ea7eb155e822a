package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"audio-translator/internal/infrastructure/transient"
	"audio-translator/pkg/errors"
	"audio-translator/pkg/file"
	"audio-translator/pkg/helper"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage stores artifacts on any S3-compatible endpoint. Namespaces are bucket names.
type MinIOStorage struct {
	client *minio.Client
}

func NewMinIOStorage(endpoint, accessKey, secretKey, region string, useSSL bool) (*MinIOStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init minio client: %w", err)
	}
	return &MinIOStorage{client: client}, nil
}

// EnsureBuckets fails fast when a configured bucket is missing.
func (m *MinIOStorage) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, bucket := range buckets {
		exists, err := m.client.BucketExists(ctx, bucket)
		if err != nil {
			return transient.Classify("check bucket "+bucket, err)
		}
		if !exists {
			return errors.ErrConfiguration(fmt.Sprintf("bucket %q does not exist", bucket))
		}
	}
	return nil
}

func (m *MinIOStorage) Put(ctx context.Context, namespace, key string, data []byte) error {
	_, err := m.client.PutObject(ctx, namespace, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: helper.GetMimeTypeFromExtension(key),
	})
	if err != nil {
		return transient.Classify(fmt.Sprintf("minio put %s/%s", namespace, key), err)
	}
	return nil
}

func (m *MinIOStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, namespace, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, transient.Classify(fmt.Sprintf("minio get %s/%s", namespace, key), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.ErrNotFound(fmt.Sprintf("%s/%s does not exist", namespace, key))
		}
		return nil, transient.Classify(fmt.Sprintf("minio read %s/%s", namespace, key), err)
	}
	return data, nil
}

func (m *MinIOStorage) PutFile(ctx context.Context, namespace, key, localPath string) error {
	sum, err := file.CalculateFileHash(localPath)
	if err != nil {
		return err
	}
	_, err = m.client.FPutObject(ctx, namespace, key, localPath, minio.PutObjectOptions{
		ContentType:  helper.GetMimeTypeFromExtension(key),
		UserMetadata: map[string]string{MetadataChecksum: sum},
	})
	if err != nil {
		return transient.Classify(fmt.Sprintf("minio put %s/%s", namespace, key), err)
	}
	return nil
}
