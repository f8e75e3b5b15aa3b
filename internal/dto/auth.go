package dto

import (
	"filevault/internal/models"
	"time"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type SessionData struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type SessionResponse struct {
	Success bool        `json:"success"`
	Data    SessionData `json:"data"`
}

type RefreshData struct {
	AccessToken string `json:"accessToken"`
}

type RefreshResponse struct {
	Success bool        `json:"success"`
	Data    RefreshData `json:"data"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC(),
	}
}
