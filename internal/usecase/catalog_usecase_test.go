package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) FindActiveBySlug(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) ListByName(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

type CatalogCacheMock struct{ mock.Mock }

func (m *CatalogCacheMock) GetCategories(ctx context.Context) ([]model.Category, bool, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Bool(1), args.Error(2)
}

func (m *CatalogCacheMock) SetCategories(ctx context.Context, categories []model.Category) error {
	return m.Called(ctx, categories).Error(0)
}

func (m *CatalogCacheMock) GetProduct(ctx context.Context, slug string) (model.Product, bool, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(model.Product)
	return p, args.Bool(1), args.Error(2)
}

func (m *CatalogCacheMock) SetProduct(ctx context.Context, product model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func TestCatalog_ListProducts_CategoryFilter(t *testing.T) {
	products := &ProductRepoMock{}
	cat := "5f0c6a8e-3b9d-4c1e-9a57-2d4e8f1b6c30"
	sale := testProduct("p-a", "A", "75")
	sale.ComparePrice = decimal.NewNullDecimal(dec("100"))
	products.On("ListActive", mock.Anything, repo.ProductListQuery{CategoryID: &cat}).
		Return([]model.Product{sale, testProduct("p-b", "B", "10")}, nil)

	uc := usecase.NewCatalogUsecase(products, &CategoryRepoMock{}, nil, nil)
	out, err := uc.ListProducts(context.Background(), &cat)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(25), out[0].DiscountPercent)
	assert.Equal(t, int64(0), out[1].DiscountPercent)
	products.AssertExpectations(t)
}

func TestCatalog_ListProducts_InvalidCategoryID(t *testing.T) {
	products := &ProductRepoMock{}
	uc := usecase.NewCatalogUsecase(products, &CategoryRepoMock{}, nil, nil)
	bad := "shoes"

	out, err := uc.ListProducts(context.Background(), &bad)
	assert.True(t, usecase.IsKind(err, usecase.KindValidation))
	assert.Empty(t, out)

	_, err = uc.Shop(context.Background(), &bad)
	assert.True(t, usecase.IsKind(err, usecase.KindValidation))

	products.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything)
}

func TestCatalog_ListProducts_BackendError(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("ListActive", mock.Anything, repo.ProductListQuery{}).Return(nil, errors.New("timeout"))

	uc := usecase.NewCatalogUsecase(products, &CategoryRepoMock{}, nil, nil)
	out, err := uc.ListProducts(context.Background(), nil)

	assert.True(t, usecase.IsKind(err, usecase.KindBackend))
	assert.Empty(t, out)
}

func TestCatalog_GetProduct_NotFound(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("FindActiveBySlug", mock.Anything, "hidden").Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewCatalogUsecase(products, &CategoryRepoMock{}, nil, nil)
	_, err := uc.GetProduct(context.Background(), "hidden")

	assert.True(t, usecase.IsKind(err, usecase.KindNotFound))
}

func TestCatalog_GetProduct_ReadThroughCache(t *testing.T) {
	ctx := context.Background()
	p := testProduct("p-a", "A", "20")
	products := &ProductRepoMock{}
	products.On("FindActiveBySlug", mock.Anything, p.Slug).Return(p, nil).Once()

	cache := &CatalogCacheMock{}
	cache.On("GetProduct", mock.Anything, p.Slug).Return(model.Product{}, false, nil).Once()
	cache.On("SetProduct", mock.Anything, p).Return(nil).Once()
	cache.On("GetProduct", mock.Anything, p.Slug).Return(p, true, nil).Once()

	uc := usecase.NewCatalogUsecase(products, &CategoryRepoMock{}, cache, nil)

	first, err := uc.GetProduct(ctx, p.Slug)
	require.NoError(t, err)
	second, err := uc.GetProduct(ctx, p.Slug)
	require.NoError(t, err)

	assert.Equal(t, "p-a", first.ID)
	assert.Equal(t, "p-a", second.ID)
	products.AssertNumberOfCalls(t, "FindActiveBySlug", 1)
	cache.AssertExpectations(t)
}

func TestCatalog_ListCategories_CacheErrorFallsBack(t *testing.T) {
	categories := &CategoryRepoMock{}
	list := []model.Category{{ID: "c1", Name: "Accessories"}, {ID: "c2", Name: "Shoes"}}
	categories.On("ListByName", mock.Anything).Return(list, nil)

	cache := &CatalogCacheMock{}
	cache.On("GetCategories", mock.Anything).Return(nil, false, errors.New("redis down"))
	cache.On("SetCategories", mock.Anything, list).Return(errors.New("redis down"))

	uc := usecase.NewCatalogUsecase(&ProductRepoMock{}, categories, cache, nil)
	out, err := uc.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, list, out)
}

func TestCatalog_Shop(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("ListActive", mock.Anything, repo.ProductListQuery{}).Return([]model.Product{testProduct("p-a", "A", "20")}, nil)
	categories := &CategoryRepoMock{}
	categories.On("ListByName", mock.Anything).Return([]model.Category{{ID: "c1", Name: "Shoes"}}, nil)

	uc := usecase.NewCatalogUsecase(products, categories, nil, nil)
	out, err := uc.Shop(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, out.Products, 1)
	assert.Len(t, out.Categories, 1)
}

func TestCatalog_Shop_FirstErrorWins(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("ListActive", mock.Anything, repo.ProductListQuery{}).Return([]model.Product{}, nil)
	categories := &CategoryRepoMock{}
	categories.On("ListByName", mock.Anything).Return(nil, errors.New("categories failed"))

	uc := usecase.NewCatalogUsecase(products, categories, nil, nil)
	_, err := uc.Shop(context.Background(), nil)

	assert.True(t, usecase.IsKind(err, usecase.KindBackend))
}
