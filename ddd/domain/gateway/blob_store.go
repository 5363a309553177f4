package gateway

import (
	"context"
	"time"
)

// BlobStore abstracts the object store holding sources, variants and
// thumbnails. Every method is a blocking network operation; callers must
// not hold locks across them.
type BlobStore interface {
	// PutObject uploads a local file under key and returns its size in bytes.
	PutObject(ctx context.Context, key, localPath, contentType string) (int64, error)

	// DownloadToFile fetches an object into a local file, creating parent
	// directories as needed.
	DownloadToFile(ctx context.Context, key, localPath string) error

	// DeleteObject removes an object. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, key string) error

	// SignGetURL returns a time-limited read URL for a private object.
	// Signing fails when the object does not exist.
	SignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PublicURL returns the unauthenticated URL for a public object,
	// optionally cache-busted.
	PublicURL(key string, noCache bool) string
}
