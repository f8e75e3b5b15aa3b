package cacherepo

import (
	"context"
	"time"
)

// Cache is a string key-value store with expiring entries.
// A missing key is not an error: Result returns the zero value.
type Cache interface {
	Get(ctx context.Context, key string) CacheResponse[string]
	Set(ctx context.Context, key string, value string, expiration time.Duration) CacheResponse[string]
	Del(ctx context.Context, keys ...string) CacheResponse[int64]
}

type CacheResponse[T any] interface {
	Err() error
	Result() (T, error)
}
