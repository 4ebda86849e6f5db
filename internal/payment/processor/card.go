package processor

import (
	"context"
	"fmt"

	"github.com/hudumahub/huduma/internal/payment/domain"
)

// SimulatedCardAcquirer stands in for a real card acquirer. It honors the
// same processor contract as mobile money so the session state machine is
// uniform: the charge reports completed on the first status query instead of
// after asynchronous approval. Swapping in a real acquirer replaces only
// this type.
type SimulatedCardAcquirer struct{}

func NewSimulatedCardAcquirer() *SimulatedCardAcquirer {
	return &SimulatedCardAcquirer{}
}

func (a *SimulatedCardAcquirer) Initiate(ctx context.Context, req domain.InitiateRequest) (domain.InitiateResponse, error) {
	return domain.InitiateResponse{Reference: fmt.Sprintf("card_%s", req.SessionID)}, nil
}

func (a *SimulatedCardAcquirer) GetStatus(ctx context.Context, reference string) (domain.StatusResponse, error) {
	return domain.StatusResponse{Status: domain.ProcessorStatusCompleted}, nil
}
