// Package imagestore keeps receipt images in S3-compatible object storage.
// The rest of the system only ever handles the object key; bytes move between
// the client, the bucket, and the extraction service via presigned URLs.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"grocery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MinioImageStore implements ImageStore on a MinIO (or any S3-compatible)
// bucket. Object keys are prefixed with the submission date so buckets stay
// browsable during disputes.
type MinioImageStore struct {
	client *minio.Client
	bucket string
}

// NewMinioImageStore creates an image store on the given bucket.
func NewMinioImageStore(client *minio.Client, bucket string) *MinioImageStore {
	return &MinioImageStore{
		client: client,
		bucket: bucket,
	}
}

// EnsureBucket creates the bucket if it does not exist yet.
// Called once at startup; concurrent creation by another replica is tolerated.
func (s *MinioImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := s.client.BucketExists(ctx, s.bucket)
		if existsErr == nil && exists {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}

	return nil
}

// Put stores an image and returns the object key it can be retrieved by.
// The key embeds a fresh UUID so uploads never collide regardless of the
// client-supplied file name.
func (s *MinioImageStore) Put(ctx context.Context, name, contentType string, size int64, body io.Reader) (string, error) {
	if name == "" {
		return "", errs.NewValueIsRequiredError("image name")
	}

	key := fmt.Sprintf("receipts/%s/%s-%s",
		time.Now().UTC().Format("2006-01-02"), uuid.NewString(), path.Base(name))

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	return key, nil
}

// PresignedURL returns a time-limited GET URL for a stored image.
func (s *MinioImageStore) PresignedURL(ctx context.Context, imageRef string, expiry time.Duration) (string, error) {
	if imageRef == "" {
		return "", errs.NewValueIsRequiredError("image reference")
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, imageRef, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", imageRef, err)
	}

	return presigned.String(), nil
}
