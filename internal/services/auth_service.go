package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"smsauth/internal/metrics"
	"smsauth/internal/models"
	"smsauth/internal/repositories"
)

// Единая ошибка логина: не раскрываем, что именно не совпало
// (незарегистрированный номер или неверный пароль).
var ErrInvalidCredentials = errors.New("invalid phone or password")

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(plain, hash string) bool
	Login(ctx context.Context, phone, password string) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword возвращает false и на битом хэше — bcrypt сам вернёт ошибку.
func (s *authService) CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *authService) Login(ctx context.Context, phone, password string) (*models.User, error) {
	phone = strings.TrimSpace(phone)

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil || strings.TrimSpace(user.PasswordHash) == "" {
		log.Printf("[auth][login] no account or empty hash for phone=%q", phone)
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if !s.CheckPassword(password, user.PasswordHash) {
		log.Printf("[auth][login] password mismatch for userID=%d", user.ID)
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	log.Printf("[auth][login] success userID=%d", user.ID)
	metrics.Logins.WithLabelValues("success").Inc()
	return user, nil
}
