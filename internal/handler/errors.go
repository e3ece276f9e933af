package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

var kindStatus = map[usecase.ErrorKind]int{
	usecase.KindUnauthenticated: http.StatusUnauthorized,
	usecase.KindForbidden:       http.StatusForbidden,
	usecase.KindNotFound:        http.StatusNotFound,
	usecase.KindValidation:      http.StatusBadRequest,
	usecase.KindConflict:        http.StatusConflict,
	usecase.KindCartEmpty:       http.StatusConflict,
	usecase.KindBackend:         http.StatusInternalServerError,
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := usecase.AsError(err); ok {
		status, found := kindStatus[ue.Kind]
		if !found {
			status = http.StatusInternalServerError
		}
		return c.JSON(status, ErrorResponse{Error: ue.Message, Redirect: ue.Redirect})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bind + validate
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return usecase.NewError(usecase.KindValidation, "invalid body")
	}
	if err := c.Validate(dst); err != nil {
		return usecase.WrapError(usecase.KindValidation, err.Error(), err)
	}
	return nil
}
