package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/config"
	grantdomain "github.com/hudumahub/huduma/internal/grant/domain"
	"github.com/hudumahub/huduma/internal/metrics"
	"github.com/hudumahub/huduma/internal/payment/domain"
	"github.com/hudumahub/huduma/internal/payment/processor"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Policy   *config.PolicyHolder
	Repo     domain.Repository
	Registry *processor.Registry
	Grants   grantdomain.Service
	Metrics  *metrics.Metrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	policy   *config.PolicyHolder
	repo     domain.Repository
	registry *processor.Registry
	grants   grantdomain.Service
	metrics  *metrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		policy:   p.Policy,
		repo:     p.Repo,
		registry: p.Registry,
		grants:   p.Grants,
		metrics:  p.Metrics,
	}
}

func (s *Service) StartPayment(ctx context.Context, req domain.StartPaymentRequest) (*domain.Session, error) {
	if req.ClientID == 0 {
		return nil, domain.ErrInvalidClient
	}

	policy := s.policy.Get()
	var amount int64
	switch req.Purpose {
	case domain.PurposeSubscription:
		amount = policy.SubscriptionAmount
	case domain.PurposeContactUnlock:
		if req.ProviderID == 0 {
			return nil, domain.ErrInvalidProvider
		}
		amount = policy.ContactUnlockAmount
	default:
		return nil, domain.ErrInvalidPurpose
	}

	proc, err := s.registry.ForMethod(req.Method)
	if err != nil {
		return nil, err
	}

	// All local validation happens before the processor is touched; an
	// invalid request must never reach the network.
	phone := ""
	if req.Method == domain.MethodMobileMoney {
		phone, err = domain.ValidatePhoneNumber(req.Operator, req.PhoneNumber)
		if err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	session := domain.Session{
		ID:          s.genID.Generate(),
		ClientID:    req.ClientID,
		ProviderID:  req.ProviderID,
		Purpose:     req.Purpose,
		Method:      req.Method,
		Amount:      amount,
		Currency:    policy.Currency,
		PhoneNumber: phone,
		Operator:    req.Operator,
		Status:      domain.SessionStatusWaitingApproval,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	resp, err := proc.Initiate(ctx, domain.InitiateRequest{
		SessionID:   session.ID.String(),
		Purpose:     req.Purpose,
		Amount:      amount,
		Currency:    policy.Currency,
		PhoneNumber: phone,
		Operator:    req.Operator,
	})
	if err != nil {
		// Initiation failed before any money moved; no session row is
		// written and the client may retry immediately.
		s.metrics.RecordInitiation("failed")
		s.log.Warn("payment initiation failed",
			zap.String("client_id", req.ClientID.String()),
			zap.String("purpose", string(req.Purpose)),
			zap.Error(err),
		)
		return nil, err
	}
	session.Reference = resp.Reference

	if err := s.repo.Insert(ctx, s.db, &session); err != nil {
		return nil, err
	}
	s.metrics.RecordInitiation("ok")
	return &session, nil
}

func (s *Service) GetSession(ctx context.Context, id snowflake.ID) (*domain.Session, error) {
	session, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) Settle(ctx context.Context, id snowflake.ID) (*domain.SettleResult, error) {
	session, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if session.Status.Terminal() {
		// Already settled; the terminal row is the answer.
		return &domain.SettleResult{Session: session}, nil
	}

	proc, err := s.registry.ForMethod(session.Method)
	if err != nil {
		return nil, err
	}

	policy := s.policy.Get()
	poller := NewPoller(proc, policy.PollInterval, policy.MaxPollAttempts, s.log)
	outcome, err := poller.Poll(ctx, session.Reference)
	if err != nil {
		// Cancelled mid-poll; the session stays waiting_approval and a
		// later call resumes polling.
		return nil, err
	}

	var target domain.SessionStatus
	var reason string
	switch {
	case outcome.TimedOut:
		target = domain.SessionStatusTimedOut
		reason = "We did not receive a confirmation in time. If you approved the payment, it will be reconciled shortly."
	case outcome.Status == domain.ProcessorStatusCompleted:
		target = domain.SessionStatusCompleted
	default:
		target = domain.SessionStatusFailed
		reason = domain.FailureReason(outcome.Message)
	}

	if target == domain.SessionStatusCompleted {
		// The entitlement is made durable before the session is frozen.
		// If the grant fails the session stays settleable and a retry
		// replays the grant; the ledgers absorb the duplicate.
		if err := s.grants.Apply(ctx, grantdomain.Request{
			ClientID:   session.ClientID,
			ProviderID: session.ProviderID,
			Purpose:    session.Purpose,
			Reference:  session.Reference,
			Amount:     session.Amount,
			Currency:   session.Currency,
		}); err != nil {
			return nil, fmt.Errorf("apply grant: %w", err)
		}
	}

	performed, err := s.repo.Transition(ctx, s.db, session.ID, target, reason, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if performed {
		s.metrics.RecordSettlement(string(target))
		s.log.Info("payment session settled",
			zap.String("session_id", session.ID.String()),
			zap.String("status", string(target)),
			zap.Int("poll_attempts", outcome.Attempts),
		)
	}

	settled, err := s.repo.FindByID(ctx, s.db, session.ID)
	if err != nil {
		return nil, err
	}
	if settled == nil {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.SettleResult{
		Session: settled,
		Applied: performed && target == domain.SessionStatusCompleted,
	}, nil
}
