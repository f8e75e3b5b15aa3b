package files

import (
	"context"
	"errors"
	"filevault/internal/dto"
	"filevault/internal/models"
	utils "filevault/internal/utils/http_errors"
	"io"
	"log/slog"
	"net/http"
	"os"
)

const (
	formField       = "files"
	formOverhead    = 1 << 20
	spoolPattern    = "filevault-upload-*"
	defaultMimeType = "application/octet-stream"
)

type UploadLimits struct {
	MaxFiles    int
	MaxFileSize int64
}

func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fu FileUploader, limits UploadLimits) {
	op := pkg + "Upload"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := fu.AssertConfigured(); err != nil {
		log.Error("file storage is not configured", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, "File storage is not configured")
		return
	}

	if limits.MaxFiles > 0 && limits.MaxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(limits.MaxFiles)*limits.MaxFileSize+formOverhead)
	}

	uploads, cleanup, err := readUploads(r, limits)
	defer cleanup()
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			log.Warn("request body too large", slog.Int64("limit", tooLarge.Limit))
			utils.WriteJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, errTooManyFiles):
			log.Warn("too many files", slog.Int("limit", limits.MaxFiles))
			utils.WriteJSONError(w, http.StatusBadRequest, "Too many files")
		default:
			log.Warn("failed to read multipart form", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadRequest, "Invalid form data")
		}
		return
	}

	files, uploadErrs, err := fu.Upload(ctx, requester, uploads)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoFiles):
			utils.WriteJSONError(w, http.StatusBadRequest, "No files provided")
		case errors.Is(err, models.ErrStorageNotConfigured):
			log.Error("file storage is not configured", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusInternalServerError, "File storage is not configured")
		default:
			log.Error("failed to upload files", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusInternalServerError, "File upload failed")
		}
		return
	}

	if len(files) == 0 {
		log.Warn("all uploads failed", slog.Int("count", len(uploadErrs)))
		utils.WriteJSONErrorDetails(w, http.StatusBadRequest, "All uploads failed", uploadErrs)
		return
	}

	message := "All files uploaded successfully"
	if len(uploadErrs) > 0 {
		message = "Some files uploaded successfully"
	}

	response := dto.UploadResponse{
		Success: true,
		Message: message,
		Files:   dto.NewFileResponses(files),
		Errors:  uploadErrs,
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

var errTooManyFiles = errors.New("too many files")

// readUploads spools every "files" part to a temp file, keeping the order the
// client sent them in. A part without a file name still takes its slot so the
// service reports it at the right index. cleanup removes the temp files.
func readUploads(r *http.Request, limits UploadLimits) ([]*models.Upload, func(), error) {
	var spooled []string
	cleanup := func() {
		for _, path := range spooled {
			_ = os.Remove(path)
		}
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, cleanup, err
	}

	var uploads []*models.Upload
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, cleanup, err
		}

		if part.FormName() != formField {
			_ = part.Close()
			continue
		}

		if limits.MaxFiles > 0 && len(uploads) >= limits.MaxFiles {
			_ = part.Close()
			return nil, cleanup, errTooManyFiles
		}

		name := part.FileName()
		if name == "" {
			_ = part.Close()
			uploads = append(uploads, &models.Upload{
				Open: func() (io.ReadSeekCloser, error) { return nil, models.ErrMissingFilename },
			})
			continue
		}

		path, size, err := spool(part, limits.MaxFileSize)
		_ = part.Close()
		if path != "" {
			spooled = append(spooled, path)
		}
		if err != nil {
			return nil, cleanup, err
		}

		uploads = append(uploads, toUpload(name, part.Header.Get("Content-Type"), path, size))
	}

	return uploads, cleanup, nil
}

// spool copies at most maxSize+1 bytes of part to a temp file. A size above
// maxSize marks the file as too large without reading the rest of it.
func spool(part io.Reader, maxSize int64) (string, int64, error) {
	tmp, err := os.CreateTemp("", spoolPattern)
	if err != nil {
		return "", 0, err
	}

	var size int64
	if maxSize > 0 {
		size, err = io.CopyN(tmp, part, maxSize+1)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	} else {
		size, err = io.Copy(tmp, part)
	}

	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	return tmp.Name(), size, err
}

func toUpload(name, mime, path string, size int64) *models.Upload {
	if mime == "" {
		mime = defaultMimeType
	}

	return &models.Upload{
		OriginalName: name,
		Mime:         mime,
		Size:         size,
		Open: func() (io.ReadSeekCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}
