package users

import (
	"errors"
	"net/http"
	"strconv"

	"account-service/internal/api"
	"account-service/internal/handler"
	"account-service/internal/middleware"
	"account-service/internal/model"
	"account-service/internal/repository"
	"account-service/internal/service"

	"github.com/labstack/echo/v4"
)

// 查詢字串沒帶 limit / offset 時交給資料層套預設值
func parsePagination(c echo.Context) (int, int, error) {
	var limit, offset int
	var err error
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, errors.New("invalid limit")
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil {
			return 0, 0, errors.New("invalid offset")
		}
	}
	return limit, offset, nil
}

// @Summary     Create a new user
// @Description 接收使用者表單資料並建立新帳號 (Email 會自動轉小寫)
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       name     formData string true "使用者姓名"
// @Param       email    formData string true "使用者 Email (lowercase)"
// @Param       password formData string true "使用者密碼"
// @Success     201      {object} api.UserResponse
// @Failure     400      {object} api.ErrorResponse
// @Failure     409      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(store repository.UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, err := store.Create(c.Request().Context(), req.Name, req.Email, req.Password)
		if err != nil {
			return handler.WriteError(c, err)
		}

		return c.JSON(http.StatusCreated, api.NewUserResponse(user))
	}
}

// @Summary     List users
// @Description 依 ID 遞增排序回傳一頁使用者
// @Tags        users
// @Produce     json
// @Param       limit  query int false "每頁筆數 (預設 100)"
// @Param       offset query int false "起始位移"
// @Success     200    {array}  api.UserResponse
// @Failure     400    {object} api.ErrorResponse
// @Failure     500    {object} api.ErrorResponse
// @Router      /users [get]
func ListUsersHandler(store repository.UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, offset, err := parsePagination(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		users, err := store.List(c.Request().Context(), limit, offset)
		if err != nil {
			return handler.WriteError(c, err)
		}

		return c.JSON(http.StatusOK, api.NewUserResponses(users))
	}
}

// @Summary     Search users by name
// @Description 以不分大小寫的子字串比對姓名，依姓名排序回傳
// @Tags        users
// @Produce     json
// @Param       name   query string true  "姓名關鍵字"
// @Param       limit  query int    false "每頁筆數 (預設 100)"
// @Param       offset query int    false "起始位移"
// @Success     200    {array}  api.UserResponse
// @Failure     400    {object} api.ErrorResponse
// @Failure     500    {object} api.ErrorResponse
// @Router      /users/search [get]
func SearchUsersHandler(store repository.UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, offset, err := parsePagination(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		users, err := store.SearchByName(c.Request().Context(), c.QueryParam("name"), limit, offset)
		if err != nil {
			return handler.WriteError(c, err)
		}

		return c.JSON(http.StatusOK, api.NewUserResponses(users))
	}
}

// @Summary     Get a user by ID
// @Description 透過 ID 查詢並回傳使用者詳細資料
// @Tags        users
// @Produce     json
// @Param       user_id path int true "使用者 ID"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse "參數錯誤"
// @Failure     404 {object} api.ErrorResponse "使用者不存在"
// @Failure     500 {object} api.ErrorResponse "伺服器錯誤"
// @Router      /users/{user_id} [get]
func GetUserHandler(store repository.UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}

		user, err := store.GetByID(c.Request().Context(), id)
		if err != nil {
			return handler.WriteError(c, err)
		}

		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// @Summary     Update a user by ID
// @Description 更新使用者資料，沒帶的欄位維持原值
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       user_id  path     int    true  "使用者 ID"
// @Param       name     formData string false "使用者姓名"
// @Param       email    formData string false "使用者 Email (lowercase)"
// @Param       password formData string false "使用者密碼"
// @Success     200      {object} api.UserResponse
// @Failure     400      {object} api.ErrorResponse
// @Failure     404      {object} api.ErrorResponse
// @Failure     409      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /users/{user_id} [put]
func UpdateUserHandler(store repository.UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}

		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, err := store.Update(c.Request().Context(), id, repository.UpdateUserParams{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			return handler.WriteError(c, err)
		}

		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// @Summary     Delete a user by ID
// @Description 根據使用者 ID 刪除使用者帳號
// @Tags        users
// @Param       user_id path int true "使用者 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse "參數錯誤"
// @Failure     404 {object} api.ErrorResponse "使用者不存在"
// @Failure     500 {object} api.ErrorResponse "伺服器錯誤"
// @Router      /users/{user_id} [delete]
func DeleteUserHandler(store repository.UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}

		if err := store.Delete(c.Request().Context(), id); err != nil {
			return handler.WriteError(c, err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Get current user info
// @Description 透過 JWT Token 取得當前使用者詳細資訊
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMyUserHandler(store repository.UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		user, err := store.GetByID(c.Request().Context(), claims.UserID)
		if err != nil {
			return handler.WriteError(c, err)
		}

		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// @Summary     Update own password
// @Description 驗證舊密碼並更新為新密碼
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       old_password formData string true "當前密碼"
// @Param       new_password formData string true "新密碼"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/password [patch]
func UpdateMyUserPasswordHandler(store repository.UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMyPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		user, err := store.GetByID(c.Request().Context(), claims.UserID)
		if err != nil {
			return handler.WriteError(c, err)
		}

		// 換密碼前先確認本人，走與登入相同的驗證路徑
		if _, err := store.Authenticate(c.Request().Context(), user.Email, req.OldPassword); err != nil {
			if errors.Is(err, model.ErrAuthenticationFailed) {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid current password"})
			}
			return handler.WriteError(c, err)
		}

		if _, err := store.Update(c.Request().Context(), claims.UserID, repository.UpdateUserParams{
			Password: &req.NewPassword,
		}); err != nil {
			return handler.WriteError(c, err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}
