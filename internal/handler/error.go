// File: internal/handler/error.go
package handler

import (
	"errors"
	"net/http"

	"account-service/internal/api"
	"account-service/internal/model"

	"github.com/labstack/echo/v4"
)

// WriteError 把資料層的分類錯誤轉成對應的 HTTP 回應。
// 不在清單上的錯誤一律回 500，內部訊息不往外帶
func WriteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
	case errors.Is(err, model.ErrAuthenticationFailed):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
	case errors.Is(err, model.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
	case errors.Is(err, model.ErrUserAlreadyExists):
		return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "email already registered"})
	default:
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
	}
}
