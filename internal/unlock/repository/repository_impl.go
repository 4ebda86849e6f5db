package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/unlock/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertIgnore(ctx context.Context, db *gorm.DB, record *domain.UnlockRecord) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO unlock_records (id, client_id, provider_id, amount, currency, unlocked_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (client_id, provider_id) DO NOTHING`,
		record.ID,
		record.ClientID,
		record.ProviderID,
		record.Amount,
		record.Currency,
		record.UnlockedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByPair(ctx context.Context, db *gorm.DB, clientID, providerID snowflake.ID) (*domain.UnlockRecord, error) {
	var record domain.UnlockRecord
	err := db.WithContext(ctx).
		Where("client_id = ? AND provider_id = ?", clientID, providerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
