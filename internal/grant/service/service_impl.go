package service

import (
	"context"

	"github.com/hudumahub/huduma/internal/cache"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/config"
	"github.com/hudumahub/huduma/internal/grant/domain"
	paymentdomain "github.com/hudumahub/huduma/internal/payment/domain"
	subscriptiondomain "github.com/hudumahub/huduma/internal/subscription/domain"
	unlockdomain "github.com/hudumahub/huduma/internal/unlock/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	Policy        *config.PolicyHolder
	Subscriptions subscriptiondomain.Service
	Unlocks       unlockdomain.Service
	Cache         cache.AccessCache
}

type Service struct {
	log    *zap.Logger
	clock  clock.Clock
	policy *config.PolicyHolder
	subs   subscriptiondomain.Service
	unlock unlockdomain.Service
	cache  cache.AccessCache
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:    p.Log.Named("grant.service"),
		clock:  p.Clock,
		policy: p.Policy,
		subs:   p.Subscriptions,
		unlock: p.Unlocks,
		cache:  p.Cache,
	}
}

func (s *Service) Apply(ctx context.Context, req domain.Request) error {
	switch req.Purpose {
	case paymentdomain.PurposeSubscription:
		if err := s.applySubscription(ctx, req); err != nil {
			return err
		}
	case paymentdomain.PurposeContactUnlock:
		if err := s.applyUnlock(ctx, req); err != nil {
			return err
		}
	default:
		return domain.ErrUnknownPurpose
	}

	// Invalidation is the last step: the ledger write is durable before
	// any reader can observe a cache miss and recompute from it.
	s.cache.Invalidate(req.ClientID)
	s.log.Info("grant applied",
		zap.String("client_id", req.ClientID.String()),
		zap.String("purpose", string(req.Purpose)),
		zap.String("reference", req.Reference),
	)
	return nil
}

func (s *Service) applySubscription(ctx context.Context, req domain.Request) error {
	policy := s.policy.Get()
	start := s.clock.Now()
	_, err := s.subs.ApplyPeriod(ctx, subscriptiondomain.ApplyPeriodRequest{
		ClientID: req.ClientID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Start:    start,
		End:      start.AddDate(0, 0, policy.SubscriptionPeriodDays),
	})
	return err
}

func (s *Service) applyUnlock(ctx context.Context, req domain.Request) error {
	_, err := s.unlock.GrantUnlock(ctx, unlockdomain.GrantUnlockRequest{
		ClientID:   req.ClientID,
		ProviderID: req.ProviderID,
		Amount:     req.Amount,
		Currency:   req.Currency,
	})
	return err
}
