package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/unlock/domain"
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
		log:   p.Log.Named("unlock.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) HasUnlock(ctx context.Context, clientID, providerID snowflake.ID) (bool, error) {
	if clientID == 0 || providerID == 0 {
		return false, nil
	}
	record, err := s.repo.FindByPair(ctx, s.db, clientID, providerID)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

func (s *Service) GrantUnlock(ctx context.Context, req domain.GrantUnlockRequest) (*domain.UnlockRecord, error) {
	if req.ClientID == 0 {
		return nil, domain.ErrInvalidClient
	}
	if req.ProviderID == 0 {
		return nil, domain.ErrInvalidProvider
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	record := &domain.UnlockRecord{
		ID:         s.genID.Generate(),
		ClientID:   req.ClientID,
		ProviderID: req.ProviderID,
		Amount:     req.Amount,
		Currency:   strings.ToUpper(strings.TrimSpace(req.Currency)),
		UnlockedAt: s.clock.Now(),
	}

	inserted, err := s.repo.InsertIgnore(ctx, s.db, record)
	if err != nil {
		return nil, err
	}
	if inserted {
		s.log.Info("contact unlock granted",
			zap.String("client_id", req.ClientID.String()),
			zap.String("provider_id", req.ProviderID.String()),
		)
		return record, nil
	}

	// Duplicate settlement; the original grant stands.
	existing, err := s.repo.FindByPair(ctx, s.db, req.ClientID, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return record, nil
	}
	return existing, nil
}
