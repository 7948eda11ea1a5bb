package catalog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisListCache(t *testing.T) {
	cache := &RedisListCache{RDB: testRedis(t)}
	ctx := context.Background()

	_, ok := cache.Get(ctx, false)
	require.False(t, ok, "empty cache misses")

	ps := []Product{{
		ID:    "p1",
		Name:  "Mug",
		Price: decimal.RequireFromString("14.99"),
		Stock: 3,
	}}
	cache.Set(ctx, false, ps)
	cache.Set(ctx, true, nil)

	got, ok := cache.Get(ctx, false)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, "p1", got[0].ID)
	require.True(t, got[0].Price.Equal(ps[0].Price), "price survives the round trip exactly")

	cache.Invalidate(ctx)
	_, ok = cache.Get(ctx, false)
	require.False(t, ok)
	_, ok = cache.Get(ctx, true)
	require.False(t, ok)
}
