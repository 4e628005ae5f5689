package ports

import (
	"context"
	"io"
	"time"
)

// ImageStore holds receipt images in object storage. References returned
// by Put are opaque keys understood by the same store.
type ImageStore interface {
	// Put stores an image and returns its storage reference.
	Put(ctx context.Context, name string, contentType string, size int64, body io.Reader) (string, error)

	// PresignedURL returns a time-limited download URL for an image.
	PresignedURL(ctx context.Context, imageRef string, expiry time.Duration) (string, error)
}
