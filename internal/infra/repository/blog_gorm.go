package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type BlogPostGormRepository struct {
	db *gorm.DB
}

func NewBlogPostGormRepository(db *gorm.DB) *BlogPostGormRepository {
	return &BlogPostGormRepository{db: db}
}

func (r *BlogPostGormRepository) ListPublished(ctx context.Context) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("is_published = ?", true).
		Order("published_at desc").
		Find(&posts).Error
	if err != nil {
		return []model.BlogPost{}, translateError(err)
	}
	return posts, nil
}

func (r *BlogPostGormRepository) FindPublishedBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	var p model.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("slug = ? AND is_published = ?", slug, true).
		First(&p).Error
	if err != nil {
		return model.BlogPost{}, translateError(err)
	}
	return p, nil
}
