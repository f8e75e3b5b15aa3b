package files

import (
	"errors"
	"filevault/internal/models"
	utils "filevault/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

func requesterFrom(r *http.Request) (*models.Identity, bool) {
	requester, ok := r.Context().Value(models.UserContextKey).(*models.Identity)
	return requester, ok && requester != nil
}

func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrFileNotFound):
		log.Warn("file not found", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, models.ErrForbidden):
		log.Warn("access denied", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, models.ErrUpstream):
		log.Error("storage unavailable", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadGateway, "Failed to fetch file from storage")
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
