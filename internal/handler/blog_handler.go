package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type BlogHandler struct {
	uc *usecase.BlogUsecase
}

func NewBlogHandler(uc *usecase.BlogUsecase) *BlogHandler {
	return &BlogHandler{uc: uc}
}

func (h *BlogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/blog", h.list)
	e.GET("/blog/:slug", h.detail)
}

func (h *BlogHandler) list(c echo.Context) error {
	out, err := h.uc.ListPublished(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BlogHandler) detail(c echo.Context) error {
	out, err := h.uc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
