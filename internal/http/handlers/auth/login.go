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

func Login(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, authenticator Authenticator, cookie CookieConfig) {
	op := pkg + "Login"

	log = log.With(slog.String("op", op))

	var req dto.LoginRequest

	if err := decodeBody(w, r, &req); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, tokens, err := authenticator.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidParams):
			utils.WriteJSONError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, models.ErrInvalidCredentials):
			utils.WriteJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			log.Error("failed to login user", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	setRefreshCookie(w, cookie, tokens.RefreshToken)

	response := dto.SessionResponse{
		Success: true,
		Data: dto.SessionData{
			User:        dto.NewUserResponse(user),
			AccessToken: tokens.AccessToken,
		},
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
