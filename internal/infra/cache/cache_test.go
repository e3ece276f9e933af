package cache_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/cache"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRedis は使うコマンドだけをメモリで実装する。
type memRedis struct {
	redis.Cmdable
	data map[string]string
	ttl  map[string]time.Duration
	ints map[string]int64
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string]string{}, ttl: map[string]time.Duration{}, ints: map[string]int64{}}
}

func (m *memRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.ints[key]++
	return redis.NewIntResult(m.ints[key], nil)
}

func (m *memRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.ttl[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func TestRedisCatalogCache_Product(t *testing.T) {
	ctx := context.Background()
	r := newMemRedis()
	c := cache.NewRedisCatalogCache(r, time.Minute)

	_, found, err := c.GetProduct(ctx, "linen-shirt")
	require.NoError(t, err)
	assert.False(t, found)

	p := model.Product{ID: "p-1", Slug: "linen-shirt", Title: "Linen Shirt", Price: decimal.RequireFromString("30.50")}
	require.NoError(t, c.SetProduct(ctx, p))
	assert.Equal(t, time.Minute, r.ttl["catalog:product:linen-shirt"])

	got, found, err := c.GetProduct(ctx, "linen-shirt")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "p-1", got.ID)
	assert.True(t, got.Price.Equal(p.Price))
}

func TestRedisCatalogCache_Categories(t *testing.T) {
	ctx := context.Background()
	c := cache.NewRedisCatalogCache(newMemRedis(), time.Minute)

	require.NoError(t, c.SetCategories(ctx, []model.Category{{ID: "c-1", Name: "Shirts"}}))

	got, found, err := c.GetCategories(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Shirts", got[0].Name)
}

func TestRedisCatalogCache_CorruptEntry(t *testing.T) {
	r := newMemRedis()
	r.data["catalog:categories"] = "{not json"

	_, found, err := cache.NewRedisCatalogCache(r, time.Minute).GetCategories(context.Background())

	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisOrderNumberGenerator(t *testing.T) {
	ctx := context.Background()
	r := newMemRedis()
	day := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	g := cache.NewRedisOrderNumberGenerator(r, func() time.Time { return day })

	first, err := g.Next(ctx)
	require.NoError(t, err)
	second, err := g.Next(ctx)
	require.NoError(t, err)

	assert.Equal(t, "ORD-20260314-000001", first)
	assert.Equal(t, "ORD-20260314-000002", second)
	assert.Equal(t, 48*time.Hour, r.ttl["order_number:20260314"])

	day = day.Add(time.Hour)
	next, err := g.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260315-000001", next)
}
