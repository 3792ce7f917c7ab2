// File: internal/api/update_user_request.go
package api

// UpdateUserRequest 沒帶的欄位維持原值
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Name     *string `form:"name" example:"Ada Lovelace"`
	Email    *string `form:"email" validate:"omitempty,email" example:"ada@example.com"`
	Password *string `form:"password" example:"Securepass123!"`
}
