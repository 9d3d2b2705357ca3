package settings

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "perks:settings:"

// Cache is a Redis read-through cache for raw settings payloads. All methods
// degrade to a miss when the client is not configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached payload for a store and whether the key existed.
func (c *Cache) Get(ctx context.Context, storeID string) ([]byte, bool, error) {
	if c == nil || c.client == nil || storeID == "" {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, cacheKeyPrefix+storeID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set stores the payload with the configured TTL.
func (c *Cache) Set(ctx context.Context, storeID string, payload []byte) error {
	if c == nil || c.client == nil || storeID == "" || c.ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, cacheKeyPrefix+storeID, payload, c.ttl).Err()
}

// Invalidate drops the cached payload after an admin write.
func (c *Cache) Invalidate(ctx context.Context, storeID string) error {
	if c == nil || c.client == nil || storeID == "" {
		return nil
	}
	return c.client.Del(ctx, cacheKeyPrefix+storeID).Err()
}
