package gateway

import (
	"context"
	"time"
)

// URLCache caches signed playback URLs so repeated streaming lookups do
// not round-trip to the blob store for every request. A miss returns
// ("", nil); cache failures are never fatal to the caller.
type URLCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, url string, ttl time.Duration) error
}
