package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/quota/domain"
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
		log:   p.Log.Named("quota.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) RecordView(ctx context.Context, clientID, providerID snowflake.ID) (domain.RecordViewResult, error) {
	if clientID == 0 {
		return domain.RecordViewResult{}, domain.ErrInvalidClient
	}
	if providerID == 0 {
		return domain.RecordViewResult{}, domain.ErrInvalidProvider
	}

	now := s.clock.Now()
	record := domain.ViewRecord{
		ID:         s.genID.Generate(),
		ClientID:   clientID,
		ProviderID: providerID,
		ViewDay:    now.Format(domain.DayFormat),
		CreatedAt:  now,
	}

	inserted, err := s.repo.InsertIgnore(ctx, s.db, &record)
	if err != nil {
		return domain.RecordViewResult{}, err
	}
	if inserted {
		return domain.RecordViewResult{IsNewView: true, Record: record}, nil
	}

	// Lost the upsert race or the view already existed; either way the
	// stored row is authoritative.
	existing, err := s.repo.FindByDay(ctx, s.db, clientID, providerID, record.ViewDay)
	if err != nil {
		return domain.RecordViewResult{}, err
	}
	if existing == nil {
		return domain.RecordViewResult{IsNewView: false, Record: record}, nil
	}
	return domain.RecordViewResult{IsNewView: false, Record: *existing}, nil
}

func (s *Service) CountDistinctViewsToday(ctx context.Context, clientID snowflake.ID) (int, error) {
	if clientID == 0 {
		return 0, domain.ErrInvalidClient
	}
	count, err := s.repo.CountDistinctProviders(ctx, s.db, clientID, s.clock.Now().Format(domain.DayFormat))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *Service) HasViewedToday(ctx context.Context, clientID, providerID snowflake.ID) (bool, error) {
	if clientID == 0 || providerID == 0 {
		return false, nil
	}
	record, err := s.repo.FindByDay(ctx, s.db, clientID, providerID, s.clock.Now().Format(domain.DayFormat))
	if err != nil {
		return false, err
	}
	return record != nil, nil
}
