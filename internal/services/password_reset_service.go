package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"smsauth/internal/metrics"
	"smsauth/internal/repositories"
)

type PasswordResetService interface {
	RequestReset(ctx context.Context, phone string) error
	ResetPassword(ctx context.Context, phone, code, newPassword string) error
}

type passwordResetService struct {
	verifRepo repositories.PhoneVerificationRepository
	userRepo  repositories.UserRepository
	auth      AuthService
	sms       SMSSender
	gen       *CodeGenerator
	codeTTL   time.Duration
}

func NewPasswordResetService(
	verifRepo repositories.PhoneVerificationRepository,
	userRepo repositories.UserRepository,
	auth AuthService,
	sms SMSSender,
	gen *CodeGenerator,
	codeTTL time.Duration,
) PasswordResetService {
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	return &passwordResetService{
		verifRepo: verifRepo,
		userRepo:  userRepo,
		auth:      auth,
		sms:       sms,
		gen:       gen,
		codeTTL:   codeTTL,
	}
}

// RequestReset для незарегистрированного номера молча успешен —
// не раскрываем, какие номера есть в базе.
func (s *passwordResetService) RequestReset(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("[password-reset][request] unknown phone=%q, skipping", phone)
		return nil
	}

	code := s.gen.Generate()
	if _, err := s.verifRepo.Replace(ctx, phone, code, time.Now().Add(s.codeTTL)); err != nil {
		return err
	}

	text := fmt.Sprintf("Ваш код: %s", code)
	if err := s.sms.SendSMS(ctx, phone, text); err != nil {
		log.Printf("[password-reset][request] sms gateway error for phone=%q: %v", phone, err)
		metrics.SMSSent.WithLabelValues("failure").Inc()
		if delErr := s.verifRepo.DeleteByPhone(ctx, phone); delErr != nil {
			log.Printf("[password-reset][request] rollback failed for phone=%q: %v", phone, delErr)
		}
		return fmt.Errorf("%w: %v", ErrSMSDeliveryFailed, err)
	}

	metrics.SMSSent.WithLabelValues("success").Inc()
	return nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, phone, code, newPassword string) error {
	phone = strings.TrimSpace(phone)
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	v, err := s.verifRepo.Find(ctx, phone, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if v == nil {
		return ErrCodeInvalid
	}
	if time.Now().After(v.ExpiresAt) {
		return ErrCodeExpired
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user == nil {
		// код есть, а аккаунта нет — номер так и не зарегистрировали
		return ErrCodeInvalid
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.verifRepo.DeleteByPhone(ctx, phone); err != nil {
		log.Printf("[password-reset][reset] consume code failed for phone=%q: %v", phone, err)
	}

	log.Printf("[password-reset][reset] password updated for userID=%d", user.ID)
	return nil
}
