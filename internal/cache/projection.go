package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trade-journal/internal/achievement"
)

const projectionKeyPrefix = "journal:achievements:"

// ProjectionCache caches achievement projections as JSON.
type ProjectionCache struct {
	store Store
	ttl   time.Duration
}

// NewProjectionCache wraps store. ttl <= 0 keeps entries until invalidated.
func NewProjectionCache(store Store, ttl time.Duration) *ProjectionCache {
	return &ProjectionCache{store: store, ttl: ttl}
}

// ProjectionKey is the cache key of a user's projection.
func ProjectionKey(userID string) string {
	return projectionKeyPrefix + userID
}

// Get returns the cached projection, if any.
func (c *ProjectionCache) Get(ctx context.Context, userID string) (*achievement.Projection, bool, error) {
	b, ok, err := c.store.Get(ctx, ProjectionKey(userID))
	if err != nil || !ok {
		return nil, false, err
	}
	var p achievement.Projection
	if err := json.Unmarshal(b, &p); err != nil {
		// A corrupt entry is a miss; the caller rebuilds and overwrites it.
		return nil, false, nil
	}
	return &p, true, nil
}

// Put stores p under its user.
func (c *ProjectionCache) Put(ctx context.Context, p *achievement.Projection) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode projection: %w", err)
	}
	return c.store.Set(ctx, ProjectionKey(p.UserID), b, c.ttl)
}

// Invalidate drops the user's projection.
func (c *ProjectionCache) Invalidate(ctx context.Context, userID string) error {
	return c.store.Delete(ctx, ProjectionKey(userID))
}
