package models

import (
	"io"
	"time"
)

type File struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	OriginalName    string    `json:"original_name"`
	Mime            string    `json:"mime"`
	Size            int64     `json:"size"`
	StorageURL      string    `json:"storage_url"`
	StoragePublicID string    `json:"storage_public_id"`
	UploadedBy      string    `json:"uploaded_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// StoredObject is what the object storage reports back after a successful upload.
type StoredObject struct {
	URL      string
	PublicID string
}

// Upload is a single incoming file of a multipart batch.
type Upload struct {
	OriginalName string
	Mime         string
	Size         int64
	Open         func() (io.ReadSeekCloser, error)
}

type UploadError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type FileFilter struct {
	Limit int
}
