package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, session *Session) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Session, error)
	FindByReference(ctx context.Context, db *gorm.DB, reference string) (*Session, error)

	// Transition moves the session to the target status, guarded so a
	// terminal row is never rewritten. Returns whether this call performed
	// the transition.
	Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, target SessionStatus, failureReason string, at time.Time) (bool, error)
}
