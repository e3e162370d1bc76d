package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propertyease/propertyease/internal/domain/services"
	"github.com/redis/go-redis/v9"
)

// MemoryURL selects the in-process cache instead of Redis.
const MemoryURL = "memory"

// RedisCache implements services.CacheService on a Redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at url and verifies it answers.
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// CreateCacheService builds the cache named by url: "memory" or a redis:// URL.
func CreateCacheService(url string) (services.CacheService, error) {
	switch url {
	case "":
		return nil, fmt.Errorf("cache URL is required")
	case MemoryURL:
		return NewMemoryCache(), nil
	default:
		return NewRedisCache(url)
	}
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", services.ErrCacheMiss
	}
	return value, err
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
