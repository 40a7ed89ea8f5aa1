package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stellar-client-go/internal/domain/credential/model"
	"stellar-client-go/internal/platform/storage"
)

type sqliteStore struct {
	db  *gorm.DB
	key string
}

// NewSQLite builds a SQLite-backed credential store. The schema must already be
// migrated (see storage.Migrate).
func NewSQLite(db *gorm.DB, cfg Config) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	return &sqliteStore{
		db:  db,
		key: keyOrDefault(cfg.Key),
	}, nil
}

func (s *sqliteStore) Get(ctx context.Context) (model.Credential, bool, error) {
	var record storage.CredentialRecord
	err := s.db.WithContext(ctx).Where("key = ?", s.key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Credential{}, false, nil
	}
	if err != nil {
		return model.Credential{}, false, storageErr("sqlite", "get", err)
	}
	return model.Credential{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
		ExpiresAt:    record.ExpiresAt,
	}, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, cred model.Credential) error {
	if cred.Empty() {
		return errEmptyToken("sqlite")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", s.key).Delete(&storage.CredentialRecord{}).Error; err != nil {
			return err
		}
		record := &storage.CredentialRecord{
			Key:          s.key,
			AccessToken:  cred.AccessToken,
			RefreshToken: cred.RefreshToken,
			ExpiresAt:    cred.ExpiresAt,
			UpdatedAt:    time.Now(),
		}
		return tx.Create(record).Error
	})
	return storageErr("sqlite", "set", err)
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Where("key = ?", s.key).Delete(&storage.CredentialRecord{}).Error
	return storageErr("sqlite", "clear", err)
}

func (s *sqliteStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
