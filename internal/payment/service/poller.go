package service

import (
	"context"
	"time"

	"github.com/hudumahub/huduma/internal/payment/domain"
	"go.uber.org/zap"
)

// PollOutcome is what settlement polling concluded for one reference.
type PollOutcome struct {
	Status   domain.ProcessorStatus
	Message  string
	Attempts int
	TimedOut bool
}

// Poller drives a waiting session to settlement by querying the processor on
// a fixed interval. It never queries faster than the interval, never exceeds
// the attempt budget, and stops on context cancellation without concluding
// anything about the money.
type Poller struct {
	processor   domain.Processor
	interval    time.Duration
	maxAttempts int
	log         *zap.Logger
}

func NewPoller(processor domain.Processor, interval time.Duration, maxAttempts int, log *zap.Logger) *Poller {
	return &Poller{
		processor:   processor,
		interval:    interval,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

func (p *Poller) Poll(ctx context.Context, reference string) (PollOutcome, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	outcome := PollOutcome{}
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			// Cancellation says nothing about the charge; the caller
			// must not treat this as failed.
			return outcome, domain.ErrPollCancelled
		case <-ticker.C:
		}

		outcome.Attempts = attempt
		status, err := p.processor.GetStatus(ctx, reference)
		if err != nil {
			// A status query error counts against the budget but is
			// not terminal; the processor may recover.
			p.log.Warn("settlement status query failed",
				zap.String("reference", reference),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		if status.Status.Terminal() {
			outcome.Status = status.Status
			outcome.Message = status.Message
			return outcome, nil
		}
	}

	outcome.TimedOut = true
	return outcome, nil
}
