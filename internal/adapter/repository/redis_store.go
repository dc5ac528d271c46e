package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"skillswap/internal/domain/repository"
)

const redisKeyPrefix = "skillswap:"

type redisStore struct {
	inner *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string, db int) (repository.RecordStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}

	return &redisStore{inner: client}, nil
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.inner.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, redisKey(key), value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.inner.Del(ctx, redisKey(key)).Err()
}

func (s *redisStore) Close() error {
	return s.inner.Close()
}
