package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByClientID(ctx context.Context, db *gorm.DB, clientID snowflake.ID) (*SubscriptionRecord, error)
	Upsert(ctx context.Context, db *gorm.DB, record *SubscriptionRecord) error
	Deactivate(ctx context.Context, db *gorm.DB, clientID snowflake.ID, canceledAt time.Time) (bool, error)
}
