package permcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is an explicit TTL cache for role/permission lookups. It is
// injected into the middleware that needs it; nothing reads it as ambient
// global state, and invalidation is an explicit call.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// DefaultTTL matches the 5-minute staleness budget the authorization layer
// tolerates.
const DefaultTTL = 5 * time.Minute

func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func key(userID string) string {
	return "perm:" + userID
}

// GetRole returns the cached role for the user, or ok=false on a miss.
func (c *Cache) GetRole(ctx context.Context, userID string) (string, bool, error) {
	val, err := c.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("permission cache get: %w", err)
	}
	return val, true, nil
}

// SetRole caches the user's role for the configured TTL.
func (c *Cache) SetRole(ctx context.Context, userID, role string) error {
	if err := c.client.Set(ctx, key(userID), role, c.ttl).Err(); err != nil {
		return fmt.Errorf("permission cache set: %w", err)
	}
	return nil
}

// Invalidate drops the user's cached role immediately, for when an admin
// changes someone's permissions and the 5-minute window is too long.
func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("permission cache invalidate: %w", err)
	}
	return nil
}
