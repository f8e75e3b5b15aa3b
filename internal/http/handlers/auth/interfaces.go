package auth

import (
	"context"
	"filevault/internal/models"
)

const pkg = "authHandler/"

type Registrar interface {
	Register(ctx context.Context, name string, email string, password string) (*models.User, *models.AuthTokens, error)
}

type Authenticator interface {
	Login(ctx context.Context, email string, password string) (*models.User, *models.AuthTokens, error)
}

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error)
}
