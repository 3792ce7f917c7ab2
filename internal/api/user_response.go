// File: internal/api/user_response.go
package api

import (
	"time"

	"account-service/internal/model"
)

// UserResponse 是對外的使用者資訊，不含 password_hash
// swagger:model api.UserResponse
type UserResponse struct {
	ID        int       `json:"id" example:"1"`
	Name      string    `json:"name" example:"Ada Lovelace"`
	Email     string    `json:"email" example:"ada@example.com"`
	CreatedAt time.Time `json:"created_at" example:"2025-05-01T15:04:05Z07:00"`
	UpdatedAt time.Time `json:"updated_at" example:"2025-05-01T15:04:05Z07:00"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
