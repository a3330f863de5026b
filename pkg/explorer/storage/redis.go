package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// RedisStore keeps settings in redis so several explorer instances can
// share one configured URL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "explorer:"
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: prefix,
	}
}

// Ping checks that the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return apperrors.WrapStorage(err, "redis ping")
	}
	return nil
}

func (s *RedisStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.WrapStorage(err, "redis get "+key)
	}
	return val, true, nil
}

func (s *RedisStore) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		if isOOM(err) {
			return apperrors.WrapStorage(errors.Join(apperrors.ErrQuotaExceeded, err), "redis set "+key)
		}
		return apperrors.WrapStorage(err, "redis set "+key)
	}
	return nil
}

func (s *RedisStore) RemoveItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return apperrors.WrapStorage(err, "redis del "+key)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// isOOM reports whether redis rejected a write because maxmemory was reached.
func isOOM(err error) bool {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return strings.HasPrefix(rerr.Error(), "OOM")
	}
	return false
}
