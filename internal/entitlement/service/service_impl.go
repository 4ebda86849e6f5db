package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/cache"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/config"
	"github.com/hudumahub/huduma/internal/entitlement/domain"
	"github.com/hudumahub/huduma/internal/metrics"
	quotadomain "github.com/hudumahub/huduma/internal/quota/domain"
	subscriptiondomain "github.com/hudumahub/huduma/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Policy   *config.PolicyHolder
	Cache    cache.AccessCache
	QuotaSvc quotadomain.Service
	SubSvc   subscriptiondomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	policy   *config.PolicyHolder
	cache    cache.AccessCache
	quotaSvc quotadomain.Service
	subSvc   subscriptiondomain.Service
	metrics  *metrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:      p.Log.Named("entitlement.service"),
		clock:    p.Clock,
		policy:   p.Policy,
		cache:    p.Cache,
		quotaSvc: p.QuotaSvc,
		subSvc:   p.SubSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Resolve(ctx context.Context, clientID snowflake.ID) (domain.AccessDecision, error) {
	limit := s.policy.Get().DailyFreeViewLimit

	// Anonymous browsing is unmetered; never cached, nothing to count.
	if clientID == 0 {
		return domain.AccessDecision{
			HasActiveSubscription: false,
			DailyViewsCount:       0,
			DailyViewsLimit:       limit,
			CanViewMore:           true,
		}, nil
	}

	if cached, ok := s.cache.Get(clientID); ok {
		return cached, nil
	}

	decision, err := s.compute(ctx, clientID, limit)
	if err != nil {
		return domain.AccessDecision{}, err
	}

	s.cache.Set(clientID, decision)
	s.metrics.RecordAccessDecision(decision.CanViewMore)
	return decision, nil
}

func (s *Service) ResolveForProvider(ctx context.Context, clientID, providerID snowflake.ID) (domain.AccessDecision, error) {
	if providerID == 0 {
		return domain.AccessDecision{}, domain.ErrInvalidProvider
	}

	decision, err := s.Resolve(ctx, clientID)
	if err != nil {
		return domain.AccessDecision{}, err
	}
	if decision.CanViewMore || clientID == 0 {
		return decision, nil
	}

	// A provider already viewed today consumes no quota, so the block only
	// applies to providers that would be a new view.
	viewed, err := s.quotaSvc.HasViewedToday(ctx, clientID, providerID)
	if err != nil {
		return domain.AccessDecision{}, err
	}
	if viewed {
		decision.CanViewMore = true
	}
	return decision, nil
}

func (s *Service) RecordView(ctx context.Context, clientID, providerID snowflake.ID) (quotadomain.RecordViewResult, error) {
	result, err := s.quotaSvc.RecordView(ctx, clientID, providerID)
	if err != nil {
		return quotadomain.RecordViewResult{}, err
	}

	s.metrics.RecordView(result.IsNewView)

	// Patch the cached decision so a resolve right after this view sees
	// the spent unit instead of the stale count.
	if result.IsNewView {
		limit := s.policy.Get().DailyFreeViewLimit
		s.cache.Patch(clientID, func(decision *domain.AccessDecision) {
			decision.DailyViewsCount++
			decision.CanViewMore = decision.HasActiveSubscription || decision.DailyViewsCount < limit
		})
	}
	return result, nil
}

func (s *Service) compute(ctx context.Context, clientID snowflake.ID, limit int) (domain.AccessDecision, error) {
	record, err := s.subSvc.GetByClientID(ctx, clientID)
	if err != nil {
		return domain.AccessDecision{}, err
	}
	hasActive := record.ActiveAt(s.clock.Now())

	views, err := s.quotaSvc.CountDistinctViewsToday(ctx, clientID)
	if err != nil {
		return domain.AccessDecision{}, err
	}

	return domain.AccessDecision{
		HasActiveSubscription: hasActive,
		DailyViewsCount:       views,
		DailyViewsLimit:       limit,
		CanViewMore:           hasActive || views < limit,
	}, nil
}
