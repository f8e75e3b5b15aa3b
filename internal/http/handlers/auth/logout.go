package auth

import (
	"filevault/internal/dto"
	utils "filevault/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

func Logout(log *slog.Logger, w http.ResponseWriter, cookie CookieConfig) {
	op := pkg + "Logout"

	clearRefreshCookie(w, cookie)

	if err := utils.WriteJSON(w, http.StatusOK, dto.StatusResponse{Success: true}); err != nil {
		log.Error("failed to write response", slog.String("op", op), slog.String("error", err.Error()))
	}
}
