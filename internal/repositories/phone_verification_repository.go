package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"smsauth/internal/models"
)

type PhoneVerificationRepository interface {
	// Replace — атомарный delete-then-insert: на номер остаётся ровно один код.
	Replace(ctx context.Context, phone, code string, expiresAt time.Time) (*models.PhoneVerification, error)
	Find(ctx context.Context, phone, code string) (*models.PhoneVerification, error)
	DeleteByPhone(ctx context.Context, phone string) error
}

type phoneVerificationRepository struct {
	DB *sql.DB
}

func NewPhoneVerificationRepository(db *sql.DB) PhoneVerificationRepository {
	return &phoneVerificationRepository{DB: db}
}

func (r *phoneVerificationRepository) Replace(ctx context.Context, phone, code string, expiresAt time.Time) (*models.PhoneVerification, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace verification: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM phone_verifications WHERE phone = $1`, phone); err != nil {
		return nil, fmt.Errorf("delete old verifications: %w", err)
	}

	const q = `
		INSERT INTO phone_verifications (phone, code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	v := &models.PhoneVerification{Phone: phone, Code: code, ExpiresAt: expiresAt}
	if err := tx.QueryRowContext(ctx, q, phone, code, expiresAt).Scan(&v.ID, &v.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace verification: %w", err)
	}
	return v, nil
}

func (r *phoneVerificationRepository) Find(ctx context.Context, phone, code string) (*models.PhoneVerification, error) {
	const q = `
		SELECT id, phone, code, created_at, expires_at
		FROM phone_verifications
		WHERE phone = $1 AND code = $2
	`
	var v models.PhoneVerification
	err := r.DB.QueryRowContext(ctx, q, phone, code).Scan(
		&v.ID, &v.Phone, &v.Code, &v.CreatedAt, &v.ExpiresAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find verification: %w", err)
	}
	return &v, nil
}

func (r *phoneVerificationRepository) DeleteByPhone(ctx context.Context, phone string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM phone_verifications WHERE phone = $1`, phone); err != nil {
		return fmt.Errorf("delete verifications by phone: %w", err)
	}
	return nil
}
