// Package domain contains the contact-unlock ledger model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UnlockRecord is a permanent contact-reveal grant for one
// (client, provider) pair. Created once after a confirmed unlock payment,
// never revoked, not tied to subscription state.
type UnlockRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	ClientID   snowflake.ID `gorm:"not null;index"`
	ProviderID snowflake.ID `gorm:"not null"`
	Amount     int64        `gorm:"not null"`
	Currency   string       `gorm:"type:text;not null"`
	UnlockedAt time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (UnlockRecord) TableName() string { return "unlock_records" }
