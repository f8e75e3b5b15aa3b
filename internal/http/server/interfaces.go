package server

import (
	"context"
	"filevault/internal/models"
	"io"
)

type AuthService interface {
	Register(ctx context.Context, name string, email string, password string) (*models.User, *models.AuthTokens, error)
	Login(ctx context.Context, email string, password string) (*models.User, *models.AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error)
}

type FileService interface {
	AssertConfigured() error
	Upload(ctx context.Context, owner *models.Identity, uploads []*models.Upload) ([]*models.File, []models.UploadError, error)
	ListFiles(ctx context.Context, requester *models.Identity, filter models.FileFilter) ([]*models.File, error)
	OpenFile(ctx context.Context, fileID string, requester *models.Identity) (*models.File, io.ReadCloser, error)
	DeleteFile(ctx context.Context, fileID string, requester *models.Identity) error
}

type TokenVerifier interface {
	VerifyAccess(token string) (*models.Identity, error)
}
