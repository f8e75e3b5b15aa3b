package storage

import (
	"context"
	"filevault/internal/models"
	"io"
)

type FileStorage interface {
	AssertConfigured() error
	SaveFile(ctx context.Context, content io.ReadSeeker, size int64, originalName string, mime string) (*models.StoredObject, error)
	LoadFile(ctx context.Context, file *models.File) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, publicID string) error
}
