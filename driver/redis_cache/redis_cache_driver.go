// Package redis_cache stores serialized payloads in Redis.
package redis_cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "report-assembler:"

type RedisCacheDriver struct {
	client *redis.Client
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisCacheDriver(opts Options) *RedisCacheDriver {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisCacheDriver{client: client}
}

func (d *RedisCacheDriver) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func (d *RedisCacheDriver) Close() error {
	return d.client.Close()
}

// Get returns the payload stored under key. A missing key is reported
// through the bool, not as an error.
func (d *RedisCacheDriver) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := d.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

func (d *RedisCacheDriver) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := d.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
