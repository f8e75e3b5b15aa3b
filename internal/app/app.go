package app

import (
	"context"
	"errors"
	"filevault/internal/cache/redis"
	"filevault/internal/config"
	"filevault/internal/dbs/postgres"
	"filevault/internal/lib/password"
	"filevault/internal/lib/tokens"
	cachefilesrepo "filevault/internal/repositories/cache/files"
	filerepo "filevault/internal/repositories/db/file"
	userrepo "filevault/internal/repositories/db/user"
	s3storage "filevault/internal/repositories/storage/s3"
	authservice "filevault/internal/services/auth"
	fileservice "filevault/internal/services/file"
	userservice "filevault/internal/services/user"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

type App struct {
	AuthService  *authservice.AuthService
	UserService  *userservice.UserService
	FileService  *fileservice.FileService
	TokenManager *tokens.Manager

	db    *sqlx.DB
	cache *redis.Client
}

// NewApp opens the database and cache connections once and wires every service on top of them.
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{
		Addr:      cfg.Cache.Addr,
		Password:  cfg.Cache.Password,
		DB:        cfg.Cache.DB,
		KeyPrefix: cfg.Cache.KeyPrefix,
	})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		_ = db.Close()
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	tokenManager, err := tokens.New(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		_ = db.Close()
		_ = cache.Close()
		return nil, fmt.Errorf("failed to init tokens: %w", err)
	}

	fileStorage, err := s3storage.New(ctx, s3storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Folder:        cfg.Storage.Folder,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		Presign:       cfg.Storage.Presign,
		PresignTTL:    cfg.Storage.PresignTTL,
	})
	if err != nil {
		_ = db.Close()
		_ = cache.Close()
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}

	if err := fileStorage.AssertConfigured(); err != nil {
		log.Warn("file storage is not configured, uploads will fail", slog.String("error", err.Error()))
	}

	userRepo := userrepo.NewRepository(db)

	userService := userservice.New(log, userRepo, userRepo)

	authService := authservice.New(log, userService, userService, password.New(password.DefaultCost), tokenManager)

	fileRepo := filerepo.NewRepository(db)

	fileCacheRepo := cachefilesrepo.New(cache, cfg.Cache.FilesTTL)

	fileService := fileservice.New(log, fileRepo, fileCacheRepo, fileStorage, fileservice.Config{
		MaxFileSize: cfg.Files.MaxFileSize,
		ListAll:     cfg.Files.ListAll,
	})

	return &App{
		AuthService:  authService,
		UserService:  userService,
		FileService:  fileService,
		TokenManager: tokenManager,
		db:           db,
		cache:        cache,
	}, nil
}

func (a *App) Close() error {
	return errors.Join(a.db.Close(), a.cache.Close())
}
