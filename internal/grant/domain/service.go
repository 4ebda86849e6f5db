package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/hudumahub/huduma/internal/payment/domain"
)

var (
	// ErrUnknownPurpose means a settled payment carried a purpose no
	// applier knows how to turn into an entitlement.
	ErrUnknownPurpose = errors.New("unknown_grant_purpose")
)

// Request describes a settled payment whose entitlement must be applied.
type Request struct {
	ClientID   snowflake.ID
	ProviderID snowflake.ID
	Purpose    paymentdomain.Purpose
	Reference  string
	Amount     int64
	Currency   string
}

// Service turns settled payments into durable entitlements. Apply is
// idempotent: the ledgers underneath absorb duplicates, so replaying a
// request is safe.
type Service interface {
	Apply(ctx context.Context, req Request) error
}
