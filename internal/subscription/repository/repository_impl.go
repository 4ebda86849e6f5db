package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByClientID(ctx context.Context, db *gorm.DB, clientID snowflake.ID) (*domain.SubscriptionRecord, error) {
	var record domain.SubscriptionRecord
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *domain.SubscriptionRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscription_records (
			id, client_id, active, plan_start, plan_end, amount, currency,
			canceled_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)
		ON CONFLICT (client_id) DO UPDATE SET
			active = excluded.active,
			plan_start = excluded.plan_start,
			plan_end = excluded.plan_end,
			amount = excluded.amount,
			currency = excluded.currency,
			canceled_at = NULL,
			updated_at = excluded.updated_at`,
		record.ID,
		record.ClientID,
		record.Active,
		record.PlanStart,
		record.PlanEnd,
		record.Amount,
		record.Currency,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, clientID snowflake.ID, canceledAt time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE subscription_records
		 SET active = ?, canceled_at = ?, updated_at = ?
		 WHERE client_id = ? AND active = ?`,
		false,
		canceledAt,
		canceledAt,
		clientID,
		true,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
