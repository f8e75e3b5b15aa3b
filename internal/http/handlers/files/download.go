package files

import (
	"context"
	utils "filevault/internal/utils/http_errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

var dispositionEscaper = strings.NewReplacer(`"`, `'`, `\`, `_`, "\r", "", "\n", "")

func Download(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fileID string, fo FileOpener) {
	op := pkg + "Download"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, content, err := fo.OpenFile(ctx, fileID, requester)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", file.Mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, dispositionEscaper.Replace(file.OriginalName)))
	w.Header().Set("Cache-Control", "private, max-age=0, must-revalidate")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, content); err != nil {
		log.Error("failed to write file response", slog.String("file_id", fileID), slog.String("error", err.Error()))
	}
}
