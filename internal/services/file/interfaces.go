package fileservice

import (
	"context"
	"filevault/internal/models"
	"io"
)

type FileRepository interface {
	CreateFile(ctx context.Context, file *models.File) error
	FileByID(ctx context.Context, id string) (*models.File, error)
	ListAll(ctx context.Context, filter models.FileFilter) ([]*models.File, error)
	ListByOwner(ctx context.Context, ownerID string, filter models.FileFilter) ([]*models.File, error)
	Delete(ctx context.Context, id string) error
}

type FileStorage interface {
	AssertConfigured() error
	SaveFile(ctx context.Context, content io.ReadSeeker, size int64, originalName string, mime string) (*models.StoredObject, error)
	LoadFile(ctx context.Context, file *models.File) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, publicID string) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Del(ctx context.Context, keys ...string) error
}
