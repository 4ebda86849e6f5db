package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("subscription.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) GetByClientID(ctx context.Context, clientID snowflake.ID) (*domain.SubscriptionRecord, error) {
	if clientID == 0 {
		return nil, domain.ErrInvalidClient
	}
	return s.repo.FindByClientID(ctx, s.db, clientID)
}

func (s *Service) ApplyPeriod(ctx context.Context, req domain.ApplyPeriodRequest) (*domain.SubscriptionRecord, error) {
	if req.ClientID == 0 {
		return nil, domain.ErrInvalidClient
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if req.Start.IsZero() || req.End.IsZero() || !req.Start.Before(req.End) {
		return nil, domain.ErrInvalidPeriod
	}

	now := s.clock.Now()
	record := &domain.SubscriptionRecord{
		ID:        s.genID.Generate(),
		ClientID:  req.ClientID,
		Active:    true,
		PlanStart: req.Start.UTC(),
		PlanEnd:   req.End.UTC(),
		Amount:    req.Amount,
		Currency:  strings.ToUpper(strings.TrimSpace(req.Currency)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Upsert(ctx, s.db, record); err != nil {
		return nil, err
	}

	// The upsert may have kept the original row id; re-read so the caller
	// sees the stored state.
	stored, err := s.repo.FindByClientID(ctx, s.db, req.ClientID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return record, nil
	}

	s.log.Info("subscription period applied",
		zap.String("client_id", req.ClientID.String()),
		zap.Time("plan_end", stored.PlanEnd),
	)
	return stored, nil
}

func (s *Service) Cancel(ctx context.Context, clientID snowflake.ID) error {
	if clientID == 0 {
		return domain.ErrInvalidClient
	}

	deactivated, err := s.repo.Deactivate(ctx, s.db, clientID, s.clock.Now())
	if err != nil {
		return err
	}
	if !deactivated {
		return domain.ErrSubscriptionNotFound
	}

	s.log.Info("subscription canceled", zap.String("client_id", clientID.String()))
	return nil
}
