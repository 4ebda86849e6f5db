package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	quotadomain "github.com/hudumahub/huduma/internal/quota/domain"
)

type Service interface {
	// Resolve computes the access decision for a client, consulting the
	// status cache first. Anonymous callers (zero id) resolve to an
	// unmetered decision.
	Resolve(ctx context.Context, clientID snowflake.ID) (AccessDecision, error)

	// ResolveForProvider is Resolve plus the repeat-view bypass: a provider
	// already viewed today never blocks, even when the quota is spent.
	ResolveForProvider(ctx context.Context, clientID, providerID snowflake.ID) (AccessDecision, error)

	// RecordView consumes one unit of quota for a first view of the
	// provider today and patches the cached decision so the next Resolve
	// reflects the new count without waiting out the TTL.
	RecordView(ctx context.Context, clientID, providerID snowflake.ID) (quotadomain.RecordViewResult, error)
}

var (
	ErrInvalidClient   = errors.New("invalid_client")
	ErrInvalidProvider = errors.New("invalid_provider")
)
