package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/quota/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertIgnore(ctx context.Context, db *gorm.DB, record *domain.ViewRecord) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO view_records (id, client_id, provider_id, view_day, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (client_id, provider_id, view_day) DO NOTHING`,
		record.ID,
		record.ClientID,
		record.ProviderID,
		record.ViewDay,
		record.CreatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByDay(ctx context.Context, db *gorm.DB, clientID, providerID snowflake.ID, day string) (*domain.ViewRecord, error) {
	var record domain.ViewRecord
	err := db.WithContext(ctx).
		Where("client_id = ? AND provider_id = ? AND view_day = ?", clientID, providerID, day).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) CountDistinctProviders(ctx context.Context, db *gorm.DB, clientID snowflake.ID, day string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(DISTINCT provider_id)
		 FROM view_records
		 WHERE client_id = ? AND view_day = ?`,
		clientID,
		day,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
