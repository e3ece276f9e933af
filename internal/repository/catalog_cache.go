package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// カタログ読み取りのキャッシュ。
// found=false は未キャッシュ。エラー時は呼び出し側がDBへフォールバックする。
type CatalogCache interface {
	GetCategories(ctx context.Context) ([]model.Category, bool, error)
	SetCategories(ctx context.Context, categories []model.Category) error
	GetProduct(ctx context.Context, slug string) (model.Product, bool, error)
	SetProduct(ctx context.Context, product model.Product) error
}
