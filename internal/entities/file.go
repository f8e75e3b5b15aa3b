package entities

import "time"

type File struct {
	ID              string    `db:"id"`
	Filename        string    `db:"filename"`
	OriginalName    string    `db:"original_name"`
	Mime            string    `db:"mime"`
	Size            int64     `db:"size"`
	StorageURL      string    `db:"storage_url"`
	StoragePublicID string    `db:"storage_public_id"`
	UploadedBy      string    `db:"uploaded_by"`
	CreatedAt       time.Time `db:"created_at"`
}
