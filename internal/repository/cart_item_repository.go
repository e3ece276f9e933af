package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// すべて user_id で絞る（自分の行だけ触れる）
type CartItemRepository interface {
	// 商品をJOINして返す
	ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error)
	// 同一商品はDB側で加算（読み→書きの競合を起こさない）
	IncrementOrCreate(ctx context.Context, item model.CartItem) error
	UpdateQuantity(ctx context.Context, userID string, cartItemID string, qty int64, now time.Time) error
	DeleteByID(ctx context.Context, userID string, cartItemID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}
