package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"video-pipeline-service/ddd/domain/gateway"
)

const urlCachePrefix = "stream:url:"

// RedisURLCache implements gateway.URLCache on Redis. Entries live
// shorter than the signature TTL so a cached URL is always still valid
// when served.
type RedisURLCache struct {
	client *redis.Client
}

// NewRedisURLCache wraps an existing client. Returns nil when the client
// is nil so the resolver degrades to uncached signing.
func NewRedisURLCache(client *redis.Client) gateway.URLCache {
	if client == nil {
		return nil
	}
	return &RedisURLCache{client: client}
}

func (c *RedisURLCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, urlCachePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *RedisURLCache) Set(ctx context.Context, key string, url string, ttl time.Duration) error {
	return c.client.Set(ctx, urlCachePrefix+key, url, ttl).Err()
}
