package redis

import (
	"context"
	"errors"
	cacherepo "filevault/internal/repositories/cache"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pkg = "redis/"

type Config struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix namespaces every key, so one redis can serve several deployments.
	KeyPrefix string
}

// Client adapts go-redis to cacherepo.Cache.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// response hides redis.Nil: a missing key reads as the zero value without error.
type response[T any] struct {
	err error
	val T
}

func newResponse[T any](val T, err error) response[T] {
	if errors.Is(err, redis.Nil) {
		var zero T
		return response[T]{val: zero}
	}

	return response[T]{val: val, err: err}
}

func (r response[T]) Err() error {
	return r.err
}

func (r response[T]) Result() (T, error) {
	return r.val, r.err
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	op := pkg + "New"

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping %s: %w", op, cfg.Addr, err)
	}

	return &Client{rdb: rdb, prefix: cfg.KeyPrefix}, nil
}

func (c *Client) key(k string) string {
	return c.prefix + k
}

func (c *Client) Get(ctx context.Context, key string) cacherepo.CacheResponse[string] {
	val, err := c.rdb.Get(ctx, c.key(key)).Result()
	return newResponse(val, err)
}

func (c *Client) Set(ctx context.Context, key string, value string, expiration time.Duration) cacherepo.CacheResponse[string] {
	val, err := c.rdb.Set(ctx, c.key(key), value, expiration).Result()
	return newResponse(val, err)
}

func (c *Client) Del(ctx context.Context, keys ...string) cacherepo.CacheResponse[int64] {
	if len(keys) == 0 {
		return response[int64]{}
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}

	n, err := c.rdb.Del(ctx, prefixed...).Result()
	return newResponse(n, err)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
