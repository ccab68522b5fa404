package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

type redisStateRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisStateRepository connects to addr and namespaces every key with
// prefix.
func NewRedisStateRepository(ctx context.Context, addr, prefix string) (repository.StateRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return newRedisState(client, prefix), nil
}

func newRedisState(client *redis.Client, prefix string) *redisStateRepository {
	return &redisStateRepository{client: client, prefix: prefix}
}

func (r *redisStateRepository) key(k string) string { return r.prefix + k }

func (r *redisStateRepository) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read state %q: %w", key, err)
	}
	return v, nil
}

// Set stores without expiry; the session lives until logout.
func (r *redisStateRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("write state %q: %w", key, err)
	}
	return nil
}

func (r *redisStateRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

func (r *redisStateRepository) Close() error {
	return r.client.Close()
}
