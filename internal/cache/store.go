// Package cache provides response caching for the pipeline: a fingerprint
// keygen, an in-memory store with TTL expiry and insertion-order eviction,
// and a Redis-backed store.
package cache

import (
	"context"
	"time"
)

// Store is the interface all cache backends implement.
type Store interface {
	// Get retrieves a value. Returns nil, nil when the key is absent or
	// expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. If TTL is 0 the backend's
	// default TTL is used.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear empties the store unconditionally.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error

	// Stats returns hit/miss counters.
	Stats() Stats
}

// Stats holds cache counters for monitoring.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Sets      int64   `json:"sets"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}
