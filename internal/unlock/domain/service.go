package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type GrantUnlockRequest struct {
	ClientID   snowflake.ID
	ProviderID snowflake.ID
	Amount     int64
	Currency   string
}

type Service interface {
	HasUnlock(ctx context.Context, clientID, providerID snowflake.ID) (bool, error)

	// GrantUnlock upserts the permanent grant. Safe to call more than once
	// for the same pair; duplicate settlement notifications collapse onto
	// the stored record.
	GrantUnlock(ctx context.Context, req GrantUnlockRequest) (*UnlockRecord, error)
}

type Repository interface {
	InsertIgnore(ctx context.Context, db *gorm.DB, record *UnlockRecord) (bool, error)
	FindByPair(ctx context.Context, db *gorm.DB, clientID, providerID snowflake.ID) (*UnlockRecord, error)
}

var (
	ErrInvalidClient   = errors.New("invalid_client")
	ErrInvalidProvider = errors.New("invalid_provider")
	ErrInvalidAmount   = errors.New("invalid_amount")
)
