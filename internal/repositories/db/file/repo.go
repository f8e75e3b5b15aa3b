package filerepo

import (
	"context"
	"database/sql"
	"errors"
	"filevault/internal/entities"
	"filevault/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "fileRepo/"

const selectFiles = `SELECT
			f.id AS id,
			f.filename AS filename,
			f.original_name AS original_name,
			f.mime AS mime,
			f.size AS size,
			f.storage_url AS storage_url,
			f.storage_public_id AS storage_public_id,
			f.uploaded_by AS uploaded_by,
			f.created_at AS created_at
		FROM files f`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateFile(ctx context.Context, file *models.File) error {
	op := pkg + "CreateFile"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO files (id, filename, original_name, mime, size, storage_url, storage_public_id, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		file.ID, file.Filename, file.OriginalName, file.Mime, file.Size,
		file.StorageURL, file.StoragePublicID, file.UploadedBy, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) FileByID(ctx context.Context, id string) (*models.File, error) {
	op := pkg + "FileByID"

	rawFile := entities.File{}

	err := r.db.GetContext(ctx, &rawFile, selectFiles+`
		WHERE f.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrFileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(rawFile), nil
}

// ListAll returns every file newest-first. A limit of zero means no limit.
func (r *repository) ListAll(ctx context.Context, filter models.FileFilter) ([]*models.File, error) {
	op := pkg + "ListAll"

	query := selectFiles + `
		ORDER BY f.created_at DESC`
	args := []any{}

	if filter.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, filter.Limit)
	}

	return r.selectFiles(ctx, op, query, args...)
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string, filter models.FileFilter) ([]*models.File, error) {
	op := pkg + "ListByOwner"

	query := selectFiles + `
		WHERE f.uploaded_by = $1
		ORDER BY f.created_at DESC`
	args := []any{ownerID}

	if filter.Limit > 0 {
		query += ` LIMIT $2`
		args = append(args, filter.Limit)
	}

	return r.selectFiles(ctx, op, query, args...)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM files WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrFileNotFound)
	}

	return nil
}

func (r *repository) selectFiles(ctx context.Context, op string, query string, args ...any) ([]*models.File, error) {
	rawFiles := make([]entities.File, 0)

	if err := r.db.SelectContext(ctx, &rawFiles, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files := make([]*models.File, 0, len(rawFiles))
	for _, rawFile := range rawFiles {
		files = append(files, toModel(rawFile))
	}

	return files, nil
}

func toModel(f entities.File) *models.File {
	return &models.File{
		ID:              f.ID,
		Filename:        f.Filename,
		OriginalName:    f.OriginalName,
		Mime:            f.Mime,
		Size:            f.Size,
		StorageURL:      f.StorageURL,
		StoragePublicID: f.StoragePublicID,
		UploadedBy:      f.UploadedBy,
		CreatedAt:       f.CreatedAt,
	}
}
