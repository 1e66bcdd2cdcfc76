package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss indicates the requested key was not found in cache
	ErrMiss = errors.New("cache: key not found")

	// ErrUnavailable indicates the cache backend is unavailable
	ErrUnavailable = errors.New("cache: backend unavailable")

	// ErrBadValue indicates the cached value cannot be parsed
	ErrBadValue = errors.New("cache: invalid value")
)

// Cache holds short-lived snapshots of derived data, such as leaderboard
// pages and announcement bodies. T is the snapshot type.
type Cache[T any] interface {
	// Get retrieves a snapshot. Returns ErrMiss when the key does not
	// exist or has expired.
	Get(ctx context.Context, key string) (T, error)

	// Set stores a snapshot with TTL.
	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Close releases the backend connection.
	Close() error

	// Health checks if the backend is reachable.
	Health(ctx context.Context) error
}

// Fetch is a cache-aside helper: on miss it calls build, stores the
// result, and returns it. A failed Set is ignored so a flaky backend
// never hides a good build result.
func Fetch[T any](
	ctx context.Context,
	c Cache[T],
	key string,
	ttl time.Duration,
	build func(ctx context.Context) (T, error),
) (T, error) {
	if value, err := c.Get(ctx, key); err == nil {
		return value, nil
	}

	value, err := build(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}
