package cache

import (
	"context"
	"time"
)

// Cache is a JSON value store with per-key TTL.
// The payment service keeps processed callbacks here so replays skip the database.
// Implementations: infrastructure/cache.RedisCache (production), in-memory fakes (tests).
type Cache interface {
	// Get decodes the value under key into dest.
	// A miss returns (false, nil) and leaves dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key; ttl <= 0 keeps it forever
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}
