package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/pricing"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 一覧・詳細で返す商品（割引率つき）
type ProductOutput struct {
	model.Product
	DiscountPercent int64 `json:"discount_percent"`
}

type ShopOutput struct {
	Products   []ProductOutput  `json:"products"`
	Categories []model.Category `json:"categories"`
}

// 公開商品とカテゴリの読み取り
type CatalogUsecase struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
	cache      repo.CatalogCache
	log        *zap.Logger
}

// DI
func NewCatalogUsecase(
	products repo.ProductRepository,
	categories repo.CategoryRepository,
	cache repo.CatalogCache,
	log *zap.Logger,
) *CatalogUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogUsecase{products: products, categories: categories, cache: cache, log: log}
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, categoryID *string) ([]ProductOutput, error) {
	if err := checkCategoryID(categoryID); err != nil {
		return []ProductOutput{}, err
	}

	list, err := u.products.ListActive(ctx, repo.ProductListQuery{CategoryID: categoryID})
	if err != nil {
		return []ProductOutput{}, backendError(err)
	}

	out := make([]ProductOutput, 0, len(list))
	for _, p := range list {
		out = append(out, toProductOutput(p))
	}
	return out, nil
}

// slugで1件（非公開・無しは404）
func (u *CatalogUsecase) GetProduct(ctx context.Context, slug string) (ProductOutput, error) {
	if slug == "" {
		return ProductOutput{}, NewError(KindValidation, "invalid slug")
	}

	if u.cache != nil {
		p, found, err := u.cache.GetProduct(ctx, slug)
		if err != nil {
			u.log.Warn("catalog cache get failed", zap.String("slug", slug), zap.Error(err))
		} else if found {
			return toProductOutput(p), nil
		}
	}

	p, err := u.products.FindActiveBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return ProductOutput{}, backendError(err)
	}

	if u.cache != nil {
		if err := u.cache.SetProduct(ctx, p); err != nil {
			u.log.Warn("catalog cache set failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return toProductOutput(p), nil
}

// 名前順
func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	if u.cache != nil {
		list, found, err := u.cache.GetCategories(ctx)
		if err != nil {
			u.log.Warn("catalog cache get failed", zap.String("key", "categories"), zap.Error(err))
		} else if found {
			return list, nil
		}
	}

	list, err := u.categories.ListByName(ctx)
	if err != nil {
		return []model.Category{}, backendError(err)
	}

	if u.cache != nil {
		if err := u.cache.SetCategories(ctx, list); err != nil {
			u.log.Warn("catalog cache set failed", zap.String("key", "categories"), zap.Error(err))
		}
	}
	return list, nil
}

// ショップ画面用に商品とカテゴリを並行で読む（最初のエラーを返す）
func (u *CatalogUsecase) Shop(ctx context.Context, categoryID *string) (ShopOutput, error) {
	if err := checkCategoryID(categoryID); err != nil {
		return ShopOutput{}, err
	}

	var out ShopOutput
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := u.ListProducts(gctx, categoryID)
		out.Products = products
		return err
	})
	g.Go(func() error {
		categories, err := u.ListCategories(gctx)
		out.Categories = categories
		return err
	})

	if err := g.Wait(); err != nil {
		return ShopOutput{}, err
	}
	return out, nil
}

// category_id はUUIDのみ（DBの型エラーで500にしない）
func checkCategoryID(categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := uuid.Parse(*categoryID); err != nil {
		return NewError(KindValidation, "invalid category_id")
	}
	return nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		Product:         p,
		DiscountPercent: pricing.DiscountPercent(p.Price, p.ComparePrice),
	}
}
