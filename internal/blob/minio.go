package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions configures a MinioBackend.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	Prefix    string // object name prefix
}

// MinioBackend keeps uploads as objects in a MinIO (or S3) bucket.
type MinioBackend struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioBackend connects and creates the bucket if it is missing.
func NewMinioBackend(ctx context.Context, opts MinioOptions) (*MinioBackend, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
		}
	}

	return &MinioBackend{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

func (m *MinioBackend) objectName(id string) string {
	return m.prefix + id
}

func (m *MinioBackend) Put(ctx context.Context, id string, r io.Reader, size int64, contentType string) error {
	if size <= 0 {
		size = -1 // unknown, minio streams in parts
	}
	_, err := m.client.PutObject(ctx, m.bucket, m.objectName(id), r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *MinioBackend) Open(ctx context.Context, id string) (Content, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.objectName(id), minio.GetObjectOptions{})
	if err != nil {
		return Content{}, mapMinioErr(err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return Content{}, mapMinioErr(err)
	}
	return Content{
		Body:        obj,
		ContentType: info.ContentType,
		Size:        info.Size,
		ModTime:     info.LastModified,
	}, nil
}

func (m *MinioBackend) Remove(ctx context.Context, id string) error {
	return mapMinioErr(m.client.RemoveObject(ctx, m.bucket, m.objectName(id), minio.RemoveObjectOptions{}))
}

// Close is a no-op; the client holds no resources that need closing.
func (m *MinioBackend) Close() error { return nil }

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return errors.Join(ErrNotFound, err)
	}
	return err
}
