package middleware

import (
	"context"
	"filevault/internal/models"
	utils "filevault/internal/utils/http_errors"
	"log/slog"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// Auth admits requests carrying a valid access token in the Authorization
// header and stores the caller's identity in the request context.
func Auth(log *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Auth"

			log := log.With(slog.String("op", op))

			token, ok := bearerToken(r)
			if !ok {
				log.Debug("missing bearer token", slog.String("path", r.URL.Path))
				utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			requester, err := verifier.VerifyAccess(token)
			if err != nil {
				log.Info("invalid access token", slog.String("error", err.Error()))
				utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, requester)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", false
	}

	return token, true
}
