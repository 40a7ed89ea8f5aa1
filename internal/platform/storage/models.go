package storage

import "time"

// CredentialRecord is the durable row behind the sqlite credential driver.
type CredentialRecord struct {
	ID           uint       `gorm:"primaryKey"`
	Key          string     `gorm:"column:key;uniqueIndex;not null"`
	AccessToken  string     `gorm:"column:access_token;not null"`
	RefreshToken string     `gorm:"column:refresh_token"`
	ExpiresAt    *time.Time `gorm:"column:expires_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;not null"`
}

func (CredentialRecord) TableName() string {
	return "credentials"
}
