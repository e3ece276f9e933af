package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 日付ごとのカウンタ。翌日以降は使わないので2日で消える。
const orderNumberKeyTTL = 48 * time.Hour

// Redis の INCR で注文番号を採番する（ORD-YYYYMMDD-NNNNNN）。
type RedisOrderNumberGenerator struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisOrderNumberGenerator(client redis.Cmdable, now func() time.Time) *RedisOrderNumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &RedisOrderNumberGenerator{client: client, now: now}
}

func (g *RedisOrderNumberGenerator) Next(ctx context.Context) (string, error) {
	day := g.now().UTC().Format("20060102")
	key := "order_number:" + day

	n, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return "", err
	}
	if n == 1 {
		if err := g.client.Expire(ctx, key, orderNumberKeyTTL).Err(); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("ORD-%s-%06d", day, n), nil
}
