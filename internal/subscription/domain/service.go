package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ApplyPeriodRequest struct {
	ClientID snowflake.ID
	Amount   int64
	Currency string
	Start    time.Time
	End      time.Time
}

type Service interface {
	// GetByClientID returns the client's subscription record or nil when
	// none exists.
	GetByClientID(ctx context.Context, clientID snowflake.ID) (*SubscriptionRecord, error)

	// ApplyPeriod upserts the record with a fresh paid period. Called by
	// the grant applier after a confirmed settlement; safe to repeat.
	ApplyPeriod(ctx context.Context, req ApplyPeriodRequest) (*SubscriptionRecord, error)

	// Cancel deactivates the record. The paid period is not refunded; the
	// record stays for audit.
	Cancel(ctx context.Context, clientID snowflake.ID) error
}

var (
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidPeriod        = errors.New("invalid_period")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
)
