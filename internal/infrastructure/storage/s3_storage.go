package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"audio-translator/internal/infrastructure/transient"
	"audio-translator/pkg/errors"
	"audio-translator/pkg/file"
	"audio-translator/pkg/helper"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the subset of *s3.Client the store needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Storage stores artifacts in S3. Namespaces are bucket names.
type S3Storage struct {
	client s3API
}

func NewS3Storage(cfg aws.Config) *S3Storage {
	return &S3Storage{client: s3.NewFromConfig(cfg)}
}

func newS3StorageWithClient(client s3API) *S3Storage {
	return &S3Storage{client: client}
}

func (s *S3Storage) Put(ctx context.Context, namespace, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(namespace),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(helper.GetMimeTypeFromExtension(key)),
	})
	if err != nil {
		return transient.Classify(fmt.Sprintf("s3 put s3://%s/%s", namespace, key), err)
	}
	return nil
}

func (s *S3Storage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(namespace),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, errors.ErrNotFound(fmt.Sprintf("s3://%s/%s does not exist", namespace, key))
		}
		return nil, transient.Classify(fmt.Sprintf("s3 get s3://%s/%s", namespace, key), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transient.Classify(fmt.Sprintf("s3 read s3://%s/%s", namespace, key), err)
	}
	return data, nil
}

// PutFile streams a local file and records its sha256 as object metadata.
func (s *S3Storage) PutFile(ctx context.Context, namespace, key, localPath string) error {
	sum, err := file.CalculateFileHash(localPath)
	if err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(namespace),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(helper.GetMimeTypeFromExtension(key)),
		Metadata:      map[string]string{MetadataChecksum: sum},
	})
	if err != nil {
		return transient.Classify(fmt.Sprintf("s3 put s3://%s/%s", namespace, key), err)
	}
	return nil
}
