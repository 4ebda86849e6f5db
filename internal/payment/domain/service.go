package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type StartPaymentRequest struct {
	ClientID    snowflake.ID
	ProviderID  snowflake.ID
	Purpose     Purpose
	Method      Method
	PhoneNumber string
	Operator    string
}

// SettleResult reports where one settlement call left the session.
type SettleResult struct {
	Session *Session

	// Applied is true when this call both observed the completed charge
	// and applied the entitlement. Repeat calls on a settled session
	// return Applied false.
	Applied bool
}

type Service interface {
	// StartPayment validates the request, initiates the charge with the
	// processor, and persists the session in waiting_approval. Nothing is
	// persisted when initiation fails.
	StartPayment(ctx context.Context, req StartPaymentRequest) (*Session, error)

	GetSession(ctx context.Context, id snowflake.ID) (*Session, error)

	// Settle polls the processor until the charge concludes or the attempt
	// budget runs out, freezes the session in its terminal status, and
	// applies the entitlement on completion. Idempotent on terminal
	// sessions.
	Settle(ctx context.Context, id snowflake.ID) (*SettleResult, error)
}
