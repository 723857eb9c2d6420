package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"smsauth/internal/models"
)

// ErrDuplicatePhone — нарушение уникальности users.phone.
// Уникальный индекс в БД — основная защита от гонки check-then-insert.
var ErrDuplicatePhone = errors.New("phone already registered")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (phone, password_hash, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, q,
		user.Phone, user.PasswordHash, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	const q = `
		SELECT id, phone, password_hash, is_active, created_at
		FROM users
		WHERE phone = $1
	`
	u := &models.User{}
	err := r.DB.QueryRowContext(ctx, q, phone).Scan(
		&u.ID, &u.Phone, &u.PasswordHash, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $1 WHERE id = $2`
	if _, err := r.DB.ExecContext(ctx, q, passwordHash, userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
