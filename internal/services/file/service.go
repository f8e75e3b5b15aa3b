package fileservice

import (
	"context"
	"encoding/json"
	"errors"
	"filevault/internal/models"
	cachefilesrepo "filevault/internal/repositories/cache/files"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "fileService/"

const defaultMime = "application/octet-stream"

type Config struct {
	MaxFileSize int64
	// ListAll makes listings return every user's files instead of the caller's.
	ListAll bool
}

type FileService struct {
	log         *slog.Logger
	fileRepo    FileRepository
	cache       Cache
	fileStorage FileStorage
	cfg         Config
}

func New(
	log *slog.Logger,
	fileRepo FileRepository,
	cache Cache,
	fileStorage FileStorage,
	cfg Config,
) *FileService {
	return &FileService{
		log:         log,
		fileRepo:    fileRepo,
		cache:       cache,
		fileStorage: fileStorage,
		cfg:         cfg,
	}
}

func (fs *FileService) AssertConfigured() error {
	return fs.fileStorage.AssertConfigured()
}

// Upload stores every upload independently. A failure of one file never
// affects the others; failures are reported by their position in uploads.
func (fs *FileService) Upload(ctx context.Context, owner *models.Identity, uploads []*models.Upload) ([]*models.File, []models.UploadError, error) {
	op := pkg + "Upload"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to upload files", slog.Int("count", len(uploads)), slog.String("owner_id", owner.ID))

	if len(uploads) == 0 {
		return nil, nil, models.ErrNoFiles
	}

	if err := fs.fileStorage.AssertConfigured(); err != nil {
		log.Error("file storage is not configured", slog.String("error", err.Error()))
		return nil, nil, err
	}

	type result struct {
		file *models.File
		err  error
	}

	results := make([]result, len(uploads))

	var wg sync.WaitGroup
	for i, upload := range uploads {
		wg.Add(1)
		go func(i int, upload *models.Upload) {
			defer wg.Done()
			file, err := fs.uploadOne(ctx, owner, upload)
			results[i] = result{file: file, err: err}
		}(i, upload)
	}
	wg.Wait()

	files := make([]*models.File, 0, len(uploads))
	var uploadErrs []models.UploadError

	for i, res := range results {
		if res.err != nil {
			log.Warn("failed to upload file", slog.Int("index", i), slog.String("error", res.err.Error()))
			uploadErrs = append(uploadErrs, models.UploadError{Index: i, Error: uploadErrorMessage(res.err, fs.cfg.MaxFileSize)})
			continue
		}
		files = append(files, res.file)
	}

	if len(files) > 0 {
		fs.invalidate(ctx, log, owner.ID)
	}

	log.Debug("files uploaded", slog.Int("uploaded", len(files)), slog.Int("failed", len(uploadErrs)))

	return files, uploadErrs, nil
}

func (fs *FileService) uploadOne(ctx context.Context, owner *models.Identity, upload *models.Upload) (*models.File, error) {
	op := pkg + "uploadOne"

	if upload == nil || upload.OriginalName == "" {
		return nil, models.ErrMissingFilename
	}

	if fs.cfg.MaxFileSize > 0 && upload.Size > fs.cfg.MaxFileSize {
		return nil, models.ErrFileTooLarge
	}

	content, err := upload.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}
	defer content.Close()

	mime := upload.Mime
	if mime == "" {
		mime = defaultMime
	}

	stored, err := fs.fileStorage.SaveFile(ctx, content, upload.Size, upload.OriginalName, mime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	file := &models.File{
		ID:              uuid.NewV4().String(),
		Filename:        stored.PublicID,
		OriginalName:    upload.OriginalName,
		Mime:            mime,
		Size:            upload.Size,
		StorageURL:      stored.URL,
		StoragePublicID: stored.PublicID,
		UploadedBy:      owner.ID,
		CreatedAt:       time.Now().UTC(),
	}

	if err := fs.fileRepo.CreateFile(ctx, file); err != nil {
		if delErr := fs.fileStorage.DeleteFile(ctx, stored.PublicID); delErr != nil {
			fs.log.Error("failed to remove orphaned object",
				slog.String("op", op),
				slog.String("public_id", stored.PublicID),
				slog.String("error", delErr.Error()))
		}
		return nil, fmt.Errorf("%s: save metadata: %w", op, err)
	}

	return file, nil
}

func uploadErrorMessage(err error, maxSize int64) string {
	switch {
	case errors.Is(err, models.ErrMissingFilename):
		return "File name is missing."
	case errors.Is(err, models.ErrFileTooLarge):
		return fmt.Sprintf("File exceeds the maximum size of %d bytes", maxSize)
	case errors.Is(err, models.ErrObjectExists):
		return "A file with this name already exists"
	default:
		return "File upload failed"
	}
}

// ListFiles returns files newest-first. Unless the service is configured to
// list everything, only the requester's own files are returned.
func (fs *FileService) ListFiles(ctx context.Context, requester *models.Identity, filter models.FileFilter) ([]*models.File, error) {
	op := pkg + "ListFiles"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to list files", slog.String("requester_id", requester.ID), slog.Int("limit", filter.Limit))

	list := func() ([]*models.File, error) {
		if fs.cfg.ListAll {
			return fs.fileRepo.ListAll(ctx, filter)
		}
		return fs.fileRepo.ListByOwner(ctx, requester.ID, filter)
	}

	if filter.Limit > 0 {
		files, err := list()
		if err != nil {
			log.Error("failed to list files", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}
		return files, nil
	}

	cacheKey := cachefilesrepo.OwnerKey(requester.ID)
	if fs.cfg.ListAll {
		cacheKey = cachefilesrepo.AllKey()
	}

	filesJSON, err := fs.cache.Get(ctx, cacheKey)
	if err != nil {
		log.Warn("failed to get files from cache", slog.String("error", err.Error()))
	}

	if filesJSON != "" {
		files, err := jsonToFiles(filesJSON)
		if err == nil {
			log.Debug("files listed from cache", slog.Int("count", len(files)))
			return files, nil
		}
		log.Warn("failed to parse cached files", slog.String("error", err.Error()))
	}

	files, err := list()
	if err != nil {
		log.Error("failed to list files", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	filesJSON, err = toJSON(files)
	if err != nil {
		log.Error("failed to convert files to json", slog.String("error", err.Error()))
	} else if err = fs.cache.Set(ctx, cacheKey, filesJSON); err != nil {
		log.Warn("failed to set files in cache", slog.String("error", err.Error()))
	}

	log.Debug("files listed successfully", slog.Int("count", len(files)))

	return files, nil
}

// FileByID returns the record only to its owner.
func (fs *FileService) FileByID(ctx context.Context, fileID string, requester *models.Identity) (*models.File, error) {
	op := pkg + "FileByID"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to get file by id", slog.String("file_id", fileID), slog.String("user_id", requester.ID))

	file, err := fs.fileMetaByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if !isOwner(file, requester.ID) {
		log.Warn("user doesn't own file", slog.String("file_id", fileID), slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	return file, nil
}

// OpenFile returns the record together with a stream of its content.
// The caller closes the stream.
func (fs *FileService) OpenFile(ctx context.Context, fileID string, requester *models.Identity) (*models.File, io.ReadCloser, error) {
	op := pkg + "OpenFile"

	log := fs.log.With(slog.String("op", op))

	file, err := fs.FileByID(ctx, fileID, requester)
	if err != nil {
		return nil, nil, err
	}

	content, err := fs.fileStorage.LoadFile(ctx, file)
	if err != nil {
		log.Error("failed to load file from storage", slog.String("file_id", fileID), slog.String("error", err.Error()))
		// A cached record can outlive a concurrent delete; trust the database over the cache.
		if _, repoErr := fs.fileRepo.FileByID(ctx, fileID); errors.Is(repoErr, models.ErrFileNotFound) {
			log.Warn("cached record of a deleted file", slog.String("file_id", fileID))
			fs.invalidate(ctx, log, file.UploadedBy, cachefilesrepo.FileKey(fileID))
			return nil, nil, models.ErrFileNotFound
		}
		if errors.Is(err, models.ErrUpstream) {
			return nil, nil, models.ErrUpstream
		}
		return nil, nil, models.ErrInternal
	}

	log.Debug("file opened successfully", slog.String("file_id", fileID))

	return file, content, nil
}

// DeleteFile removes the stored object first and the metadata second.
func (fs *FileService) DeleteFile(ctx context.Context, fileID string, requester *models.Identity) error {
	op := pkg + "DeleteFile"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to delete file", slog.String("file_id", fileID), slog.String("user_id", requester.ID))

	file, err := fs.FileByID(ctx, fileID, requester)
	if err != nil {
		return err
	}

	if err := fs.fileStorage.DeleteFile(ctx, file.StoragePublicID); err != nil {
		log.Error("failed to delete file content", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := fs.fileRepo.Delete(ctx, fileID); err != nil {
		if errors.Is(err, models.ErrFileNotFound) {
			log.Warn("file metadata already removed", slog.String("file_id", fileID))
		} else {
			log.Error("failed to delete file metadata", slog.String("error", err.Error()))
			return models.ErrInternal
		}
	}

	fs.invalidate(ctx, log, file.UploadedBy, cachefilesrepo.FileKey(fileID))

	log.Debug("file deleted successfully", slog.String("file_id", fileID), slog.String("user_id", requester.ID))

	return nil
}

func (fs *FileService) fileMetaByID(ctx context.Context, fileID string) (*models.File, error) {
	op := pkg + "fileMetaByID"

	log := fs.log.With(slog.String("op", op))

	cacheKey := cachefilesrepo.FileKey(fileID)

	fileJSON, err := fs.cache.Get(ctx, cacheKey)
	if err != nil {
		log.Warn("failed to get file from cache", slog.String("error", err.Error()))
	}

	if fileJSON != "" {
		file, err := jsonToFile(fileJSON)
		if err == nil {
			return file, nil
		}
		log.Warn("failed to parse cached file", slog.String("error", err.Error()))
	}

	file, err := fs.fileRepo.FileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, models.ErrFileNotFound) {
			log.Warn("file not found", slog.String("file_id", fileID))
			return nil, fmt.Errorf("%s: %w", op, models.ErrFileNotFound)
		}
		log.Error("failed to get file by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	fileJSON, err = toJSON(file)
	if err != nil {
		log.Error("failed to convert file to json", slog.String("error", err.Error()))
	} else if err = fs.cache.Set(ctx, cacheKey, fileJSON); err != nil {
		log.Warn("failed to set file in cache", slog.String("error", err.Error()))
	}

	return file, nil
}

func (fs *FileService) invalidate(ctx context.Context, log *slog.Logger, ownerID string, keys ...string) {
	keys = append(keys, cachefilesrepo.OwnerKey(ownerID), cachefilesrepo.AllKey())
	if err := fs.cache.Del(ctx, keys...); err != nil {
		log.Warn("failed to invalidate files cache", slog.String("error", err.Error()))
	}
}

func isOwner(file *models.File, userID string) bool {
	return file.UploadedBy == userID
}

func toJSON(v any) (string, error) {
	res, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(res), nil
}

func jsonToFile(s string) (*models.File, error) {
	var file models.File
	if err := json.Unmarshal([]byte(s), &file); err != nil {
		return nil, err
	}

	return &file, nil
}

func jsonToFiles(s string) ([]*models.File, error) {
	var files []*models.File
	if err := json.Unmarshal([]byte(s), &files); err != nil {
		return nil, err
	}

	return files, nil
}
