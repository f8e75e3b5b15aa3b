package dto

import (
	"filevault/internal/models"
	"time"
)

type FileResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Mime         string    `json:"mimetype"`
	Size         int64     `json:"size"`
	StorageURL   string    `json:"storageUrl"`
	UploadedBy   string    `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewFileResponse(f *models.File) FileResponse {
	return FileResponse{
		ID:           f.ID,
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		Mime:         f.Mime,
		Size:         f.Size,
		StorageURL:   f.StorageURL,
		UploadedBy:   f.UploadedBy,
		CreatedAt:    f.CreatedAt.UTC(),
	}
}

func NewFileResponses(files []*models.File) []FileResponse {
	res := make([]FileResponse, 0, len(files))
	for _, f := range files {
		res = append(res, NewFileResponse(f))
	}

	return res
}

type FileListResponse struct {
	Success bool           `json:"success"`
	Files   []FileResponse `json:"files"`
}

type UploadResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Files   []FileResponse       `json:"files"`
	Errors  []models.UploadError `json:"errors,omitempty"`
}
