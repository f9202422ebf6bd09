// Package cache stores read projections keyed by user. Entries are
// invalidated by the orchestrator after every write, so a stale read is
// bounded by one pass.
package cache

import (
	"context"
	"time"
)

// Store is a byte-level key/value cache with optional expiry.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
