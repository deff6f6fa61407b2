package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache is a JSON read-model cache over Redis, bound to one view type
// and one key prefix. Cache trouble is never fatal: a failed read falls
// back to the store, a failed write only logs.
type ViewCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewViewCache binds a cache to prefix. Pass ttl 0 for entries that live
// until explicitly invalidated.
func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached view for key, or (nil, false) on a miss. An entry
// that no longer decodes into T is dropped so the next write repairs it.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var view T
	if err := json.Unmarshal(data, &view); err != nil {
		log.Printf("Dropping undecodable cache entry %s%s: %v", c.prefix, key, err)
		c.Delete(ctx, key)
		return nil, false
	}
	return &view, true
}

// Set stores view under key.
func (c *ViewCache[T]) Set(ctx context.Context, key string, view *T) {
	data, err := json.Marshal(view)
	if err != nil {
		log.Printf("Failed to marshal cache entry %s%s: %v", c.prefix, key, err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		log.Printf("Failed to write cache entry %s%s: %v", c.prefix, key, err)
	}
}

// Delete invalidates the cached view for key.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		log.Printf("Failed to delete cache entry %s%s: %v", c.prefix, key, err)
	}
}
