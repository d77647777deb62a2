package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"complytrack/internal/config"
)

const bucketCheckTimeout = 10 * time.Second

// minioStorage implements Storage on MinIO or any S3-compatible backend. Safe for concurrent use.
type minioStorage struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

var _ Storage = (*minioStorage)(nil)

// NewMinIO builds a traced MinIO client and creates the evidence bucket when it does not exist yet.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig, log *zap.Logger) (Storage, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Info("bucket_created", zap.String("component", "storage"), zap.String("bucket", cfg.Bucket))
	}

	return &minioStorage{client: cli, bucket: cfg.Bucket, log: log.With(zap.String("component", "storage"))}, nil
}

func validate(cfg config.MinIOConfig) error {
	switch {
	case cfg.Endpoint == "":
		return fmt.Errorf("minio endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return fmt.Errorf("minio credentials are required")
	case cfg.Bucket == "":
		return fmt.Errorf("minio bucket is required")
	}
	return nil
}

func (m *minioStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("put %s: %w", key, err)
	}
	lastModified := info.LastModified
	if lastModified.IsZero() {
		lastModified = time.Now().UTC()
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: lastModified,
		Metadata:     opt.Metadata,
	}, nil
}

// Delete removes an object by key. A missing object surfaces as ErrObjectNotFound.
func (m *minioStorage) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && isNoSuchKey(err) {
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return err
}

func isNoSuchKey(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return true
	}
	return false
}

func (m *minioStorage) PresignGet(ctx context.Context, key, filename string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, presignParams(filename))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	m.log.Debug("download_presigned", zap.String("key", key), zap.Duration("expiry", expiry))
	return u.String(), nil
}

// presignParams asks the backend to serve the object as an attachment named filename.
func presignParams(filename string) url.Values {
	params := url.Values{}
	if filename == "" {
		return params
	}
	params.Set("response-content-disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	return params
}
