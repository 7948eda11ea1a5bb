package orders

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/glossifi/storefront/internal/redisx"
)

// RedisStatusCache holds order statuses for fast GETs; the database stays
// the source of truth.
type RedisStatusCache struct{ RDB *redis.Client }

func (c *RedisStatusCache) Get(ctx context.Context, orderID string) (Status, bool) {
	s, err := c.RDB.Get(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Result()
	if err != nil || s == "" {
		return "", false
	}
	st, err := ParseStatus(s)
	if err != nil {
		return "", false
	}
	return st, true
}

func (c *RedisStatusCache) Set(ctx context.Context, orderID string, s Status) {
	_ = c.RDB.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID), string(s), redisx.TTLStatusCache).Err()
}
