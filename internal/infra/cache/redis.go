package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"

	"github.com/go-redis/redis/v8"
)

const (
	categoriesKey    = "catalog:categories"
	productKeyPrefix = "catalog:product:"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(opt RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
}

// カタログ読み取りのキャッシュ（JSONで保存）
type RedisCatalogCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCatalogCache(client redis.Cmdable, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl}
}

func (c *RedisCatalogCache) GetCategories(ctx context.Context) ([]model.Category, bool, error) {
	var categories []model.Category
	found, err := c.getJSON(ctx, categoriesKey, &categories)
	if err != nil || !found {
		return nil, found, err
	}
	return categories, true, nil
}

func (c *RedisCatalogCache) SetCategories(ctx context.Context, categories []model.Category) error {
	return c.setJSON(ctx, categoriesKey, categories)
}

func (c *RedisCatalogCache) GetProduct(ctx context.Context, slug string) (model.Product, bool, error) {
	var p model.Product
	found, err := c.getJSON(ctx, productKeyPrefix+slug, &p)
	if err != nil || !found {
		return model.Product{}, found, err
	}
	return p, true, nil
}

func (c *RedisCatalogCache) SetProduct(ctx context.Context, product model.Product) error {
	return c.setJSON(ctx, productKeyPrefix+product.Slug, product)
}

func (c *RedisCatalogCache) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCatalogCache) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// キャッシュ無し（REDIS_ADDR 未設定時）
type NopCatalogCache struct{}

func (NopCatalogCache) GetCategories(context.Context) ([]model.Category, bool, error) {
	return nil, false, nil
}
func (NopCatalogCache) SetCategories(context.Context, []model.Category) error { return nil }
func (NopCatalogCache) GetProduct(context.Context, string) (model.Product, bool, error) {
	return model.Product{}, false, nil
}
func (NopCatalogCache) SetProduct(context.Context, model.Product) error { return nil }
