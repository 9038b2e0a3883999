package implementation

import (
	"context"
	"errors"
	"fmt"

	"kelly-ai-client/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "kelly:secure:"

type RedisSecureStore struct {
	rdb *redis.Client
}

var _ contract.SecureStore = &RedisSecureStore{}

func NewRedisSecureStore(rdb *redis.Client) *RedisSecureStore {
	return &RedisSecureStore{rdb: rdb}
}

func (s *RedisSecureStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisSecureStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisSecureStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}
