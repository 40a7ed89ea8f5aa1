package store

import (
	"fmt"

	"gorm.io/gorm"

	"stellar-client-go/internal/platform/storage"
)

// Driver identifiers supported by the credential domain.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Dependencies captures external handles required by certain drivers.
type Dependencies struct {
	SQLiteDB *gorm.DB
}

// New creates a credential store based on the provided configuration.
func New(cfg Config, deps Dependencies) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemory(cfg), nil
	case DriverSQLite:
		db := deps.SQLiteDB
		if db == nil {
			if cfg.SQLite == nil || cfg.SQLite.DSN == "" {
				return nil, fmt.Errorf("sqlite driver requires database handle or dsn")
			}
			opened, err := storage.OpenSQLite(cfg.SQLite.DSN)
			if err != nil {
				return nil, err
			}
			db = opened
		}
		return NewSQLite(db, cfg)
	case DriverRedis:
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unsupported credential store driver: %s", driver)
	}
}
