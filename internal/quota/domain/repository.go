package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertIgnore(ctx context.Context, db *gorm.DB, record *ViewRecord) (bool, error)
	FindByDay(ctx context.Context, db *gorm.DB, clientID, providerID snowflake.ID, day string) (*ViewRecord, error)
	CountDistinctProviders(ctx context.Context, db *gorm.DB, clientID snowflake.ID, day string) (int64, error)
}
