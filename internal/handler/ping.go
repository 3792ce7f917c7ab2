// File: internal/handler/ping.go
package handler

import (
	"net/http"

	"account-service/internal/api"
	"account-service/internal/database"

	"github.com/labstack/echo/v4"
)

// PingResponse 健康檢查回應模型
// swagger:model PingResponse
type PingResponse struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     503 {object} api.ErrorResponse
// @Router      /healthz [get]
func PingHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "database unhealthy"})
		}
		return c.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}
