// File: internal/router/router.go
package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"account-service/internal/database"
	"account-service/internal/handler"
	"account-service/internal/handler/auth"
	"account-service/internal/handler/users"
	"account-service/internal/middleware"
	"account-service/internal/repository"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, store repository.UserStore, tokenTTL time.Duration) {
	// 健康檢查
	e.GET("/healthz", handler.PingHandler(db))

	api := e.Group("/api")

	// 使用者登入
	api.POST("/auth/login", auth.LoginHandler(store, tokenTTL))

	// Users CRUD 與查詢
	apiUsers := api.Group("/users")
	apiUsers.POST("", users.CreateUserHandler(store))
	apiUsers.GET("", users.ListUsersHandler(store))
	apiUsers.GET("/search", users.SearchUsersHandler(store))
	apiUsers.GET("/:user_id", users.GetUserHandler(store))
	apiUsers.PUT("/:user_id", users.UpdateUserHandler(store))
	apiUsers.DELETE("/:user_id", users.DeleteUserHandler(store))

	// 當前使用者（需要 JWT）
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth)
	apiUsersMe.GET("", users.GetMyUserHandler(store))
	apiUsersMe.PATCH("/password", users.UpdateMyUserPasswordHandler(store))
}
