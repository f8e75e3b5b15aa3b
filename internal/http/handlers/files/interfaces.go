package files

import (
	"context"
	"filevault/internal/models"
	"io"
)

const pkg = "filesHandler/"

type FileLister interface {
	ListFiles(ctx context.Context, requester *models.Identity, filter models.FileFilter) ([]*models.File, error)
}

type FileUploader interface {
	AssertConfigured() error
	Upload(ctx context.Context, owner *models.Identity, uploads []*models.Upload) ([]*models.File, []models.UploadError, error)
}

type FileOpener interface {
	OpenFile(ctx context.Context, fileID string, requester *models.Identity) (*models.File, io.ReadCloser, error)
}

type FileDeleter interface {
	DeleteFile(ctx context.Context, fileID string, requester *models.Identity) error
}
