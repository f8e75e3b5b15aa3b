package server

import (
	"context"
	"errors"
	"filevault/internal/config"
	"filevault/internal/http/handlers/auth"
	"filevault/internal/http/handlers/files"
	"filevault/internal/http/middleware"
	utils "filevault/internal/utils/http_errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
)

type Deps struct {
	AuthService   AuthService
	FileService   FileService
	TokenVerifier TokenVerifier
	Cookie        auth.CookieConfig
	UploadLimits  files.UploadLimits
	CORSOrigins   []string
}

func StartServer(ctx context.Context, cfg *config.HTTPServer, log *slog.Logger, deps Deps) error {
	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      NewHandler(log, deps),
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

// NewHandler builds the routed API wrapped in CORS handling.
func NewHandler(log *slog.Logger, deps Deps) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	setupRoutes(r, log, deps)

	return cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})(r)
}

func setupRoutes(r *mux.Router, log *slog.Logger, deps Deps) {
	// Liveness
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
	}).Methods(http.MethodGet)

	// POST register
	r.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		auth.Register(ctx, log, w, r, deps.AuthService, deps.Cookie)
	}).Methods(http.MethodPost)

	// POST login
	r.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		auth.Login(ctx, log, w, r, deps.AuthService, deps.Cookie)
	}).Methods(http.MethodPost)

	// POST refresh
	r.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		auth.Refresh(ctx, log, w, r, deps.AuthService, deps.Cookie)
	}).Methods(http.MethodPost)

	// POST logout
	r.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		auth.Logout(log, w, deps.Cookie)
	}).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, deps.TokenVerifier))

	// GET files
	protected.HandleFunc("/api/files", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		files.List(ctx, log, w, r, deps.FileService)
	}).Methods(http.MethodGet)

	// POST files
	protected.HandleFunc("/api/files/upload", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		files.Upload(ctx, log, w, r, deps.FileService, deps.UploadLimits)
	}).Methods(http.MethodPost)

	// GET file by id
	protected.HandleFunc("/api/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		fileID := mux.Vars(r)["id"]
		files.Download(ctx, log, w, r, fileID, deps.FileService)
	}).Methods(http.MethodGet)

	// DELETE file by id
	protected.HandleFunc("/api/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		fileID := mux.Vars(r)["id"]
		files.Delete(ctx, log, w, r, fileID, deps.FileService)
	}).Methods(http.MethodDelete)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusNotFound, "Not found")
	})
}
