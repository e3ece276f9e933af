package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type BlogPostRepository interface {
	// 公開済みのみ、published_at の新しい順。著者をJOIN
	ListPublished(ctx context.Context) ([]model.BlogPost, error)
	FindPublishedBySlug(ctx context.Context, slug string) (model.BlogPost, error)
}
