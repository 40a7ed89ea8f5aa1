package migrations

import (
	"gorm.io/gorm"
)

// Migration001Credentials creates the single-row-per-key credential table.
type Migration001Credentials struct{}

func (m *Migration001Credentials) Version() string {
	return "001_credentials"
}

func (m *Migration001Credentials) Description() string {
	return "Create credentials table"
}

func (m *Migration001Credentials) Up(db *gorm.DB) error {
	return db.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key VARCHAR(255) NOT NULL UNIQUE,
			access_token TEXT NOT NULL,
			refresh_token TEXT,
			expires_at DATETIME,
			updated_at DATETIME NOT NULL
		)
	`).Error
}

func (m *Migration001Credentials) Down(db *gorm.DB) error {
	return db.Exec(`DROP TABLE IF EXISTS credentials`).Error
}
