package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/orders", h.list)
	admin.PUT("/orders/:id/status", h.updateStatus)
	admin.GET("/audit-logs", h.auditLogs)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	f := repository.AdminOrderListFilter{Status: c.QueryParam("status")}

	var err error
	if f.Page, err = queryInt(c, "page", 1); err != nil {
		return writeError(c, err)
	}
	if f.Limit, err = queryInt(c, "limit", 50); err != nil {
		return writeError(c, err)
	}
	if f.From, err = queryTime(c, "from"); err != nil {
		return writeError(c, err)
	}
	if f.To, err = queryTime(c, "to"); err != nil {
		return writeError(c, err)
	}
	if v := c.QueryParam("user_id"); v != "" {
		f.UserID = &v
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 空なら既定値
func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.NewError(usecase.KindValidation, "invalid "+name)
	}
	return n, nil
}

// RFC3339。空なら nil
func queryTime(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, usecase.NewError(usecase.KindValidation, "invalid "+name)
	}
	return &t, nil
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	var req usecase.AdminUpdateOrderStatusInput
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// GET /admin/audit-logs?order_id=
func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	out, err := h.uc.ListStatusHistory(c.Request().Context(), c.QueryParam("order_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
