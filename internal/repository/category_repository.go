package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CategoryRepository interface {
	// 名前の昇順
	ListByName(ctx context.Context) ([]model.Category, error)
}
