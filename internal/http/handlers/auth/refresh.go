package auth

import (
	"context"
	"errors"
	"filevault/internal/dto"
	"filevault/internal/models"
	utils "filevault/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

// Refresh rotates the token pair. A rejected refresh token leaves the cookie untouched.
func Refresh(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, refresher Refresher, cookie CookieConfig) {
	op := pkg + "Refresh"

	log = log.With(slog.String("op", op))

	c, err := r.Cookie(RefreshCookieName)
	if err != nil || c.Value == "" {
		utils.WriteJSONError(w, http.StatusUnauthorized, "No refresh token provided")
		return
	}

	tokens, err := refresher.Refresh(ctx, c.Value)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			log.Info("refresh rejected", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		log.Error("failed to refresh tokens", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	setRefreshCookie(w, cookie, tokens.RefreshToken)

	response := dto.RefreshResponse{
		Success: true,
		Data:    dto.RefreshData{AccessToken: tokens.AccessToken},
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
