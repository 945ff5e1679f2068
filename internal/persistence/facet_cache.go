package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// FacetCache stores derived facet lists in Redis so repeated list requests
// don't re-scan the full lead set. Entries are TTL-bounded and invalidated
// on every lead mutation; a cold or unreachable cache is a miss, never an
// error surfaced to the caller.
type FacetCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFacetCache builds a cache over the shared Redis client. A nil client
// disables caching entirely.
func NewFacetCache(r *Redis, ttl time.Duration) *FacetCache {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &FacetCache{client: client, ttl: ttl}
}

// Get loads a cached value into dest, reporting whether the key was present.
func (c *FacetCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a value under key for the configured TTL.
func (c *FacetCache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate drops cached entries by key pattern after a mutation.
func (c *FacetCache) Invalidate(ctx context.Context, pattern string) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
