package model

import (
	"time"
)

// AccountModel mirrors the 'accounts' table. Email uniqueness is enforced by
// a partial unique index scoped to active rows, so a soft-deleted account
// frees its email for re-registration and concurrent duplicate inserts
// resolve at the database, not in application code.
type AccountModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_accounts_active_email,where:is_active"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
