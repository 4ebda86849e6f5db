package domain

import "context"

// ProcessorStatus is the remote charge state as reported by the processor.
type ProcessorStatus string

const (
	ProcessorStatusPending   ProcessorStatus = "pending"
	ProcessorStatusCompleted ProcessorStatus = "completed"
	ProcessorStatusFailed    ProcessorStatus = "failed"
)

func (s ProcessorStatus) Terminal() bool {
	return s == ProcessorStatusCompleted || s == ProcessorStatusFailed
}

type InitiateRequest struct {
	SessionID   string
	Purpose     Purpose
	Amount      int64
	Currency    string
	PhoneNumber string
	Operator    string
}

type InitiateResponse struct {
	Reference string
}

type StatusResponse struct {
	Status  ProcessorStatus
	Message string
}

// Processor is the external payment system: untrusted and eventually
// consistent. Initiate pushes an approval prompt to the payer; GetStatus is
// polled until the charge settles.
type Processor interface {
	Initiate(ctx context.Context, req InitiateRequest) (InitiateResponse, error)
	GetStatus(ctx context.Context, reference string) (StatusResponse, error)
}
