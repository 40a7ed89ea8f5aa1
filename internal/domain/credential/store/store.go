package store

import (
	"context"

	"stellar-client-go/internal/domain/credential/model"
)

// Store is a durable single-value credential store. Writes are last-writer-wins.
type Store interface {
	// Get returns the stored credential; ok is false when none is stored.
	Get(ctx context.Context) (cred model.Credential, ok bool, err error)
	Set(ctx context.Context, cred model.Credential) error
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}

// Config describes the store selection parameters.
type Config struct {
	Driver string
	// Key names the single slot the credential occupies.
	Key    string
	Redis  *RedisConfig
	SQLite *SQLiteConfig
}

// SQLiteConfig provides the database location when no handle is injected.
type SQLiteConfig struct {
	DSN string
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

const defaultKey = "access_token"

func keyOrDefault(key string) string {
	if key == "" {
		return defaultKey
	}
	return key
}
