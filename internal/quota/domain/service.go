package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// RecordViewResult tells the caller whether this call created the record or
// it already existed, so an in-memory count can be patched without a
// round-trip.
type RecordViewResult struct {
	IsNewView bool
	Record    ViewRecord
}

type Service interface {
	// RecordView upserts today's view record for the pair. Idempotent:
	// recording the same (client, provider) twice on one day never creates
	// a second record.
	RecordView(ctx context.Context, clientID, providerID snowflake.ID) (RecordViewResult, error)

	// CountDistinctViewsToday counts distinct providers viewed free today.
	CountDistinctViewsToday(ctx context.Context, clientID snowflake.ID) (int, error)

	// HasViewedToday reports whether the client already spent a view on
	// this provider today.
	HasViewedToday(ctx context.Context, clientID, providerID snowflake.ID) (bool, error)
}

var (
	ErrInvalidClient   = errors.New("invalid_client")
	ErrInvalidProvider = errors.New("invalid_provider")
)
