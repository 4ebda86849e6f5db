// Package domain contains the persistence model for client subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubscriptionRecord is the one subscription a client may hold. It is never
// deleted, only superseded by upsert on a new purchase or deactivated on
// cancellation. The Active flag is advisory; true entitlement additionally
// requires now < PlanEnd.
type SubscriptionRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	ClientID   snowflake.ID `gorm:"not null;uniqueIndex"`
	Active     bool         `gorm:"not null;default:false"`
	PlanStart  time.Time    `gorm:"not null"`
	PlanEnd    time.Time    `gorm:"not null"`
	Amount     int64        `gorm:"not null"`
	Currency   string       `gorm:"type:text;not null"`
	CanceledAt *time.Time   `gorm:""`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (SubscriptionRecord) TableName() string { return "subscription_records" }

// ActiveAt reports whether the record entitles the client at the given time.
func (r *SubscriptionRecord) ActiveAt(at time.Time) bool {
	return r != nil && r.Active && at.Before(r.PlanEnd)
}
