package fieldstore

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// RedisClient defines the hash operations RedisStore needs.
// GoRedis adapts a github.com/redis/go-redis/v9 client to it.
type RedisClient interface {
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key, field, value string) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// ErrRedisNil is returned by HGet when the field doesn't exist.
var ErrRedisNil = errors.New("redis: nil")

// GoRedis adapts a go-redis client to RedisClient, mapping redis.Nil to
// ErrRedisNil.
func GoRedis(c redis.Cmdable) RedisClient {
	return goRedis{c: c}
}

type goRedis struct {
	c redis.Cmdable
}

func (g goRedis) HGet(ctx context.Context, key, field string) (string, error) {
	v, err := g.c.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRedisNil
	}
	return v, err
}

func (g goRedis) HSet(ctx context.Context, key, field, value string) error {
	return g.c.HSet(ctx, key, field, value).Err()
}

func (g goRedis) HDel(ctx context.Context, key string, fields ...string) error {
	return g.c.HDel(ctx, key, fields...).Err()
}

func (g goRedis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return g.c.HGetAll(ctx, key).Result()
}

// RedisStore keeps each scope in one Redis hash, so clearing a form is a
// single HDEL.
type RedisStore struct {
	client RedisClient
	prefix string
	closed atomic.Bool
}

// RedisStoreOption configures RedisStore behavior.
type RedisStoreOption func(*redisStoreConfig)

type redisStoreConfig struct {
	prefix string
}

// WithRedisPrefix sets the key prefix for scope hashes.
// Default: "folio:fields:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(c *redisStoreConfig) {
		c.prefix = prefix
	}
}

// NewRedisStore creates a new Redis-backed field store.
func NewRedisStore(client RedisClient, opts ...RedisStoreOption) *RedisStore {
	cfg := &redisStoreConfig{
		prefix: "folio:fields:",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.prefix,
	}
}

// key returns the hash key for a scope.
func (r *RedisStore) key(scope string) string {
	return r.prefix + scope
}

// Get returns the value stored under key in scope.
func (r *RedisStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if r.closed.Load() {
		return "", false, ErrStoreClosed
	}

	v, err := r.client.HGet(ctx, r.key(scope), key)
	if err != nil {
		if errors.Is(err, ErrRedisNil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under key in scope.
func (r *RedisStore) Set(ctx context.Context, scope, key, value string) error {
	if r.closed.Load() {
		return ErrStoreClosed
	}
	return r.client.HSet(ctx, r.key(scope), key, value)
}

// Delete removes keys from the scope hash with one HDEL.
func (r *RedisStore) Delete(ctx context.Context, scope string, keys ...string) error {
	if r.closed.Load() {
		return ErrStoreClosed
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.HDel(ctx, r.key(scope), keys...)
}

// List returns every pair in the scope hash.
func (r *RedisStore) List(ctx context.Context, scope string) (map[string]string, error) {
	if r.closed.Load() {
		return nil, ErrStoreClosed
	}
	return r.client.HGetAll(ctx, r.key(scope))
}

// Close marks the store as closed. It does not close the client, which
// may be shared; Open closes the client it created.
func (r *RedisStore) Close() error {
	r.closed.Store(true)
	return nil
}

// Prefix returns the current key prefix.
func (r *RedisStore) Prefix() string {
	return r.prefix
}
