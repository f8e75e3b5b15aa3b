package cachefilesrepo

import (
	"context"
	cacherepo "filevault/internal/repositories/cache"
	"time"
)

const keyPrefix = "files:"

type repository struct {
	cache    cacherepo.Cache
	filesTTL time.Duration
}

func New(cache cacherepo.Cache, filesTTL time.Duration) *repository {
	return &repository{
		cache:    cache,
		filesTTL: filesTTL,
	}
}

// FileKey is the key of a single file record.
func FileKey(id string) string {
	return keyPrefix + id
}

// OwnerKey is the key of the unlimited listing of one owner's files.
func OwnerKey(ownerID string) string {
	return keyPrefix + "owner:" + ownerID
}

// AllKey is the key of the unlimited listing of every file.
func AllKey() string {
	return keyPrefix + "all"
}

func (r *repository) Get(ctx context.Context, key string) (string, error) {
	fileJSON, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}

	return fileJSON, nil
}

func (r *repository) Set(ctx context.Context, key string, value string) error {
	return r.cache.Set(ctx, key, value, r.filesTTL).Err()
}

func (r *repository) Del(ctx context.Context, keys ...string) error {
	return r.cache.Del(ctx, keys...).Err()
}
