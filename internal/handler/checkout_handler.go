package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	cartDeps     usecase.CartDeps
	checkoutDeps usecase.CheckoutDeps
}

func NewCheckoutHandler(cartDeps usecase.CartDeps, checkoutDeps usecase.CheckoutDeps) *CheckoutHandler {
	return &CheckoutHandler{cartDeps: cartDeps, checkoutDeps: checkoutDeps}
}

// GET /checkout の応答（フォーム初期値つき）
type CheckoutSummaryResponse struct {
	Items   []model.CartItem       `json:"items"`
	Summary pricing.DisplaySummary `json:"summary"`
	Email   string                 `json:"email"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/checkout")
	g.Use(middleware.OptionalAuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("", h.summary)
	g.POST("", h.submit)
}

func (h *CheckoutHandler) newCheckout(c echo.Context) (*usecase.Checkout, *usecase.CartStore) {
	cart := usecase.NewCartStore(middleware.SessionFrom(c), h.cartDeps)
	return usecase.NewCheckout(cart, h.checkoutDeps), cart
}

func (h *CheckoutHandler) summary(c echo.Context) error {
	co, cart := h.newCheckout(c)

	if err := co.Enter(c.Request().Context()); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CheckoutSummaryResponse{
		Items:   cart.Items(),
		Summary: co.Summary().Display(),
		Email:   cart.Session().Email(),
	})
}

func (h *CheckoutHandler) submit(c echo.Context) error {
	co, _ := h.newCheckout(c)

	var req usecase.ShippingDetails
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewError(usecase.KindValidation, "invalid body"))
	}

	out, err := co.Submit(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
