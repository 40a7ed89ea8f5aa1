package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"stellar-client-go/internal/domain/credential/model"
)

type redisStore struct {
	client *redis.Client
	key    string
}

// NewRedis constructs a redis-backed credential store.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "stellar:credential:"
	}
	return &redisStore{
		client: client,
		key:    prefix + keyOrDefault(cfg.Key),
	}, nil
}

func (s *redisStore) Get(ctx context.Context) (model.Credential, bool, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Credential{}, false, nil
	}
	if err != nil {
		return model.Credential{}, false, storageErr("redis", "get", err)
	}
	var cred model.Credential
	if err := sonic.Unmarshal(raw, &cred); err != nil {
		return model.Credential{}, false, storageErr("redis", "decode", err)
	}
	return cred, true, nil
}

func (s *redisStore) Set(ctx context.Context, cred model.Credential) error {
	if cred.Empty() {
		return errEmptyToken("redis")
	}
	data, err := sonic.Marshal(cred)
	if err != nil {
		return storageErr("redis", "encode", err)
	}
	// Expired tokens still occupy the slot; only an explicit expiry bounds the key.
	var ttl time.Duration
	if cred.ExpiresAt != nil {
		if until := time.Until(*cred.ExpiresAt); until > 0 {
			ttl = until
		}
	}
	return storageErr("redis", "set", s.client.Set(ctx, s.key, data, ttl).Err())
}

func (s *redisStore) Clear(ctx context.Context) error {
	return storageErr("redis", "clear", s.client.Del(ctx, s.key).Err())
}

func (s *redisStore) Close(context.Context) error {
	return s.client.Close()
}
