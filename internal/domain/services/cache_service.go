package services

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheService.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheService interface for caching operations
type CacheService interface {
	// Basic operations
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}

// Cache key patterns for the application
const (
	// Analytics cache
	AnalyticsCacheKeyPattern = "analytics:%s:%s" // scope:range
)

// CacheShortTerm is the default lifetime of cached analytics reports
const CacheShortTerm = 5 * time.Minute
