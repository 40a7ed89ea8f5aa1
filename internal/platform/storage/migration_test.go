package storage

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stellar-client-go/internal/platform/storage/migrations"
)

func newMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:storage-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newMemoryDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	history, err := NewMigrationManager(db).GetMigrationHistory()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Version != "001_credentials" {
		t.Fatalf("unexpected history: %+v", history)
	}

	rec := CredentialRecord{Key: "access_token", AccessToken: "tok", UpdatedAt: time.Now()}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("insert credential: %v", err)
	}
}

func TestRollbackMigration(t *testing.T) {
	db := newMemoryDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	manager := NewMigrationManager(db)
	if err := manager.RollbackMigration("001_credentials"); err == nil {
		t.Fatal("expected error for unregistered migration")
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := manager.RollbackMigration("999_missing"); err == nil {
		t.Fatal("expected error for unknown version")
	}

	manager.AddMigration(&migrations.Migration001Credentials{})
	if err := manager.RollbackMigration("001_credentials"); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if db.Migrator().HasTable("credentials") {
		t.Fatal("credentials table should be dropped")
	}
}
