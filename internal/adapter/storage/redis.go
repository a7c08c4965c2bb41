package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/niksmo/storefront/internal/core/port"
)

const redisKeyPrefix = "storefront:"

var _ port.RecordStorage = (*RedisStorage)(nil)

// RedisStorage keeps each record under storefront:<profile>:<key>.
//
// A zero ttl keeps records until they are deleted.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) RedisStorage {
	return RedisStorage{client: client, ttl: ttl}
}

func (s RedisStorage) Get(ctx context.Context, profile, key string) ([]byte, error) {
	const op = "RedisStorage.Get"

	if err := checkRecord(profile, key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := s.client.Get(ctx, redisKey(profile, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: redis get: %w", op, err)
	}
	return data, nil
}

func (s RedisStorage) Set(
	ctx context.Context, profile, key string, value []byte,
) error {
	const op = "RedisStorage.Set"

	if err := checkRecord(profile, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.client.Set(ctx, redisKey(profile, key), value, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("%s: redis set: %w", op, err)
	}
	return nil
}

func (s RedisStorage) Delete(ctx context.Context, profile, key string) error {
	const op = "RedisStorage.Delete"

	if err := checkRecord(profile, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Del(ctx, redisKey(profile, key)).Err(); err != nil {
		return fmt.Errorf("%s: redis del: %w", op, err)
	}
	return nil
}

func (s RedisStorage) Ping(ctx context.Context) error {
	const op = "RedisStorage.Ping"

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: redis unavailable: %w", op, err)
	}
	slog.Info("redis is available", "op", op)
	return nil
}

func (s RedisStorage) Close() error {
	const op = "RedisStorage.Close"

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func redisKey(profile, key string) string {
	return redisKeyPrefix + profile + ":" + key
}
