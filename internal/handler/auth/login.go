// File: internal/handler/auth/login.go
package auth

import (
	"net/http"
	"time"

	"account-service/internal/api"
	"account-service/internal/handler"
	"account-service/internal/repository"
	"account-service/internal/service"

	"github.com/labstack/echo/v4"
)

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌與到期時間
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       email    formData string true "使用者 Email"
// @Param       password formData string true "使用者密碼"
// @Success     200      {object} api.LoginResponse
// @Failure     400      {object} api.ErrorResponse
// @Failure     401      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(store repository.UserStore, ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, err := store.Authenticate(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return handler.WriteError(c, err)
		}

		token, err := service.IssueAccessToken(user, ttl)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken: token,
			ExpiresAt:   time.Now().Add(ttl),
		})
	}
}
