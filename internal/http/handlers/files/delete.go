package files

import (
	"context"
	"filevault/internal/dto"
	utils "filevault/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fileID string, fd FileDeleter) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := fd.DeleteFile(ctx, fileID, requester); err != nil {
		writeServiceError(w, log, err)
		return
	}

	response := dto.StatusResponse{
		Success: true,
		Message: "File deleted successfully",
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
