package files

import (
	"context"
	"filevault/internal/dto"
	"filevault/internal/models"
	utils "filevault/internal/utils/http_errors"
	parseutil "filevault/internal/utils/parseLimit"
	"log/slog"
	"net/http"
)

const maxListLimit = 1000

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fl FileLister) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := models.FileFilter{
		Limit: parseutil.ParseLimit(r.URL.Query().Get("limit"), maxListLimit),
	}

	files, err := fl.ListFiles(ctx, requester, filter)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	response := dto.FileListResponse{
		Success: true,
		Files:   dto.NewFileResponses(files),
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
