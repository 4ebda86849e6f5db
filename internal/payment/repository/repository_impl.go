package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, session *domain.Session) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_sessions (
			id, client_id, provider_id, purpose, method, amount, currency,
			phone_number, operator, reference, status, failure_reason,
			processor_data, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.ClientID,
		session.ProviderID,
		session.Purpose,
		session.Method,
		session.Amount,
		session.Currency,
		session.PhoneNumber,
		session.Operator,
		session.Reference,
		session.Status,
		session.FailureReason,
		session.ProcessorData,
		session.CreatedAt,
		session.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Session, error) {
	var session domain.Session
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *repo) FindByReference(ctx context.Context, db *gorm.DB, reference string) (*domain.Session, error) {
	var session domain.Session
	err := db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *repo) Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, target domain.SessionStatus, failureReason string, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payment_sessions
		 SET status = ?, failure_reason = ?, updated_at = ?
		 WHERE id = ? AND status NOT IN (?, ?, ?)`,
		target,
		failureReason,
		at,
		id,
		domain.SessionStatusCompleted,
		domain.SessionStatusFailed,
		domain.SessionStatusTimedOut,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
