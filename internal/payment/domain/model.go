// Package domain contains the payment session state machine and the
// processor boundary.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Purpose is what a settled payment buys.
type Purpose string

const (
	PurposeSubscription  Purpose = "subscription"
	PurposeContactUnlock Purpose = "contact_unlock"
)

// Method selects the charging rail.
type Method string

const (
	MethodMobileMoney Method = "mobile_money"
	MethodCard        Method = "card"
)

// SessionStatus is the lifecycle state of one attempted charge. Terminal
// states are frozen; a retry is always a new session with a new reference.
type SessionStatus string

const (
	SessionStatusCreated         SessionStatus = "created"
	SessionStatusWaitingApproval SessionStatus = "waiting_approval"
	SessionStatusCompleted       SessionStatus = "completed"
	SessionStatusFailed          SessionStatus = "failed"
	SessionStatusTimedOut        SessionStatus = "timed_out"
)

// Terminal reports whether the status permits no further transitions.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionStatusCompleted, SessionStatusFailed, SessionStatusTimedOut:
		return true
	}
	return false
}

// Session tracks one attempted charge. The processor is authoritative for
// the money; this row is the local view plus presentation state.
type Session struct {
	ID            snowflake.ID   `json:"id" gorm:"primaryKey"`
	ClientID      snowflake.ID   `json:"client_id" gorm:"not null;index"`
	ProviderID    snowflake.ID   `json:"provider_id,omitempty" gorm:""`
	Purpose       Purpose        `json:"purpose" gorm:"type:text;not null"`
	Method        Method         `json:"method" gorm:"type:text;not null"`
	Amount        int64          `json:"amount" gorm:"not null"`
	Currency      string         `json:"currency" gorm:"type:text;not null"`
	PhoneNumber   string         `json:"phone_number,omitempty" gorm:"type:text"`
	Operator      string         `json:"operator,omitempty" gorm:"type:text"`
	Reference     string         `json:"reference" gorm:"type:text;not null;uniqueIndex"`
	Status        SessionStatus  `json:"status" gorm:"type:text;not null"`
	FailureReason string         `json:"failure_reason,omitempty" gorm:"type:text"`
	ProcessorData datatypes.JSON `json:"-" gorm:"type:jsonb"`
	CreatedAt     time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "payment_sessions" }

var (
	ErrInvalidClient      = errors.New("invalid_client")
	ErrInvalidProvider    = errors.New("invalid_provider")
	ErrInvalidPurpose     = errors.New("invalid_purpose")
	ErrInvalidMethod      = errors.New("invalid_method")
	ErrInvalidOperator    = errors.New("invalid_operator")
	ErrInvalidPhoneNumber = errors.New("invalid_phone_number")
	ErrInitiationFailed   = errors.New("initiation_failed")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrSessionTerminal    = errors.New("session_terminal")
	ErrPollCancelled      = errors.New("poll_cancelled")
)
