package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP（リクエストごとに CartStore を作る）
type CartHandler struct {
	deps usecase.CartDeps
}

// DI
func NewCartHandler(deps usecase.CartDeps) *CartHandler {
	return &CartHandler{deps: deps}
}

type AddCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity" validate:"required"`
}

// /cart, /cart/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	optional := []echo.MiddlewareFunc{middleware.OptionalAuthJWT(cfg), middleware.TokenVersionGuard(userRepo)}
	required := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo)}

	// 閲覧と追加は未ログインでも受ける（追加はusecaseが401にする）
	e.GET("/cart", h.getCart, optional...)
	e.POST("/cart", h.addToCart, optional...)

	e.PATCH("/cart/:id", h.patchItem, required...)
	e.DELETE("/cart/:id", h.deleteItem, required...)
	e.DELETE("/cart", h.clear, required...)
}

func (h *CartHandler) loadStore(c echo.Context) (*usecase.CartStore, error) {
	store := usecase.NewCartStore(middleware.SessionFrom(c), h.deps)
	if err := store.Load(c.Request().Context()); err != nil {
		return nil, err
	}
	return store, nil
}

func (h *CartHandler) getCart(c echo.Context) error {
	store, err := h.loadStore(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, store.View())
}

func (h *CartHandler) addToCart(c echo.Context) error {
	store := usecase.NewCartStore(middleware.SessionFrom(c), h.deps)

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewError(usecase.KindValidation, "invalid body"))
	}

	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	if err := store.AddToCart(c.Request().Context(), req.ProductID, qty); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, store.View())
}

func (h *CartHandler) patchItem(c echo.Context) error {
	store := usecase.NewCartStore(middleware.SessionFrom(c), h.deps)

	var req UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := store.UpdateQuantity(c.Request().Context(), c.Param("id"), *req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, store.View())
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	store := usecase.NewCartStore(middleware.SessionFrom(c), h.deps)

	if err := store.RemoveFromCart(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, store.View())
}

func (h *CartHandler) clear(c echo.Context) error {
	store := usecase.NewCartStore(middleware.SessionFrom(c), h.deps)

	if err := store.ClearCart(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, store.View())
}
