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

func Register(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, registrar Registrar, cookie CookieConfig) {
	op := pkg + "Register"

	log = log.With(slog.String("op", op))

	var req dto.RegisterRequest

	if err := decodeBody(w, r, &req); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, tokens, err := registrar.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrFieldsRequired):
			utils.WriteJSONError(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, models.ErrPasswordTooShort):
			utils.WriteJSONError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, models.ErrInvalidParams):
			utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		case errors.Is(err, models.ErrUserExists):
			utils.WriteJSONError(w, http.StatusConflict, "User already exists")
		default:
			log.Error("failed to register user", slog.String("error", err.Error()))
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
