// Package cache keeps upstream fetch results in redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written by Redis.
const KeyPrefix = "chessview:fetch:"

// Redis is a byte cache backed by a redis server.
type Redis struct {
	rdb *redis.Client
}

// New wraps an existing client.
func New(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Open parses a redis:// URL and verifies the server answers.
func Open(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return New(rdb), nil
}

// Get returns the value stored under key and whether it was present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// Set stores val under key. A zero ttl keeps the key until evicted.
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, KeyPrefix+key, val, ttl).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
