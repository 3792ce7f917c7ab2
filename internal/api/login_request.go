package api

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email" example:"ada@example.com"`
	Password string `form:"password" validate:"required" example:"Securepass123!"`
}
