package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 公開商品一覧の絞り込み
type ProductListQuery struct {
	CategoryID *string
}

// 公開（is_active=true）の商品だけを読む約束。
type ProductRepository interface {
	// 新しい順
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	// slugで1件。無い/非公開は ErrNotFound
	FindActiveBySlug(ctx context.Context, slug string) (model.Product, error)
}
