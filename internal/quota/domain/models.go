// Package domain contains the free-view quota ledger model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DayFormat is the calendar-day key format. Days are cut on the UTC storage
// clock so a client cannot stretch their quota by shifting local timezones.
const DayFormat = "2006-01-02"

// ViewRecord marks one free view of a provider by a client on a calendar
// day. Unique on (client_id, provider_id, view_day); created once, immutable,
// never deleted. The uniqueness constraint is what makes concurrent
// record-view calls race-safe.
type ViewRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	ClientID   snowflake.ID `gorm:"not null;index"`
	ProviderID snowflake.ID `gorm:"not null"`
	ViewDay    string       `gorm:"type:text;not null"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ViewRecord) TableName() string { return "view_records" }
