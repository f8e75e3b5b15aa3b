package main

import (
	"context"
	"filevault/internal/app"
	"filevault/internal/config"
	"filevault/internal/http/handlers/auth"
	"filevault/internal/http/handlers/files"
	"filevault/internal/http/server"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting application", "env", cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error("failed to init app", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("failed to close app", slog.String("error", err.Error()))
		}
	}()

	err = server.StartServer(ctx, &cfg.HTTPServer, log, server.Deps{
		AuthService:   application.AuthService,
		FileService:   application.FileService,
		TokenVerifier: application.TokenManager,
		Cookie: auth.CookieConfig{
			Secure: cfg.IsProd(),
			MaxAge: cfg.JWT.RefreshTTL,
		},
		UploadLimits: files.UploadLimits{
			MaxFiles:    cfg.Files.MaxFiles,
			MaxFileSize: cfg.Files.MaxFileSize,
		},
		CORSOrigins: cfg.HTTPServer.CORSOrigins,
	})
	if err != nil {
		log.Error("failed to start server", "error", err)
		cancel()
		_ = application.Close()
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	return log
}
