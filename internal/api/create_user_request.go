package api

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Name     string `form:"name" validate:"required" example:"Ada Lovelace"`
	Email    string `form:"email" validate:"required,email" example:"ada@example.com"`
	Password string `form:"password" validate:"required" example:"Securepass123!"`
}
