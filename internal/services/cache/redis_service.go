package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// RedisClient stores JSON-encoded values of type T with a fixed expiration.
type RedisClient[T any] struct {
	rdb redis.Cmdable
	log zerolog.Logger
	ttl time.Duration
}

func NewRedisClient[T any](rdb redis.Cmdable, logger zerolog.Logger, ttl time.Duration) *RedisClient[T] {
	return &RedisClient[T]{
		rdb: rdb,
		log: logger.With().Str("component", "RedisClient").Logger(),
		ttl: ttl,
	}
}

// Set overwrites key with value and restarts its expiration.
func (c *RedisClient[T]) Set(ctx context.Context, key string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Error().Ctx(ctx).Err(err).Str("key", key).Msg("cache write failed")
		return fmt.Errorf("write %q: %w", key, err)
	}

	c.log.Debug().Ctx(ctx).Str("key", key).Int("bytes", len(payload)).Dur("ttl", c.ttl).Msg("cached")
	return nil
}

// Get returns the value under key, ErrMiss if there is none, or the
// transport or decode error.
//
//nolint:ireturn
func (c *RedisClient[T]) Get(ctx context.Context, key string) (T, error) {
	var value T

	payload, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return value, ErrMiss
	case err != nil:
		c.log.Error().Ctx(ctx).Err(err).Str("key", key).Msg("cache read failed")
		return value, fmt.Errorf("read %q: %w", key, err)
	}

	if err := json.Unmarshal(payload, &value); err != nil {
		c.log.Warn().Ctx(ctx).Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		var zero T
		return zero, fmt.Errorf("decode %q: %w", key, err)
	}
	return value, nil
}
