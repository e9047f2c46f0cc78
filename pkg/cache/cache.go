package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with TTL. Callers marshal
// their own payloads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop is a Cache that stores nothing; used when Redis is not configured
type Noop struct{}

// Get implements Cache
func (Noop) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

// Set implements Cache
func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error { return nil }

// Delete implements Cache
func (Noop) Delete(ctx context.Context, key string) error { return nil }
