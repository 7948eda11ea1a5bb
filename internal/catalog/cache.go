package catalog

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/glossifi/storefront/internal/redisx"
)

// RedisListCache keeps the (small) catalog listing in redis for a short TTL.
// Errors are swallowed: the cache is never allowed to fail a read path.
type RedisListCache struct{ RDB *redis.Client }

func (c *RedisListCache) key(featuredOnly bool) string {
	if featuredOnly {
		return redisx.KeyProductsFeatured
	}
	return redisx.KeyProductsAll
}

func (c *RedisListCache) Get(ctx context.Context, featuredOnly bool) ([]Product, bool) {
	s, err := c.RDB.Get(ctx, c.key(featuredOnly)).Result()
	if err != nil || s == "" {
		return nil, false
	}
	var ps []Product
	if err := json.Unmarshal([]byte(s), &ps); err != nil {
		return nil, false
	}
	return ps, true
}

func (c *RedisListCache) Set(ctx context.Context, featuredOnly bool, ps []Product) {
	b, err := json.Marshal(ps)
	if err != nil {
		return
	}
	_ = c.RDB.Set(ctx, c.key(featuredOnly), b, redisx.TTLProductList).Err()
}

func (c *RedisListCache) Invalidate(ctx context.Context) {
	_ = c.RDB.Del(ctx, redisx.KeyProductsAll, redisx.KeyProductsFeatured).Err()
}
