package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"directory-backend/internal/config"
	"directory-backend/internal/media"
	"directory-backend/pkg/logger"
)

// MinioStorage implements the media.ObjectStore contract on MinIO.
type MinioStorage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

var _ media.ObjectStore = (*MinioStorage)(nil)

// NewMinioStorage connects to MinIO and makes sure the bucket exists.
func NewMinioStorage(cfg config.MinIOConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("created storage bucket", map[string]interface{}{
			"bucket": cfg.Bucket,
		})
	}

	return &MinioStorage{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
	}, nil
}

// Put stores an object and returns its public URL.
func (s *MinioStorage) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", path, err)
	}
	return s.PublicURL(path), nil
}

// Remove deletes objects in one batch. The first deletion error is
// returned after the batch drains.
func (s *MinioStorage) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	objects := make(chan minio.ObjectInfo, len(paths))
	for _, p := range paths {
		objects <- minio.ObjectInfo{Key: p}
	}
	close(objects)

	var firstErr error
	for result := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		if result.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove object %s: %w", result.ObjectName, result.Err)
		}
	}
	return firstErr
}

// PublicURL derives the object's public URL without a network call.
func (s *MinioStorage) PublicURL(path string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, path)
}

// PathFromURL is the inverse of PublicURL. Unknown URLs come back
// unchanged so callers can pass through externally hosted images.
func (s *MinioStorage) PathFromURL(url string) string {
	for _, scheme := range []string{"http", "https"} {
		prefix := fmt.Sprintf("%s://%s/%s/", scheme, s.endpoint, s.bucket)
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}
