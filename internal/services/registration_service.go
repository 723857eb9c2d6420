package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smsauth/internal/metrics"
	"smsauth/internal/models"
	"smsauth/internal/repositories"
)

var (
	ErrCodeInvalid       = errors.New("invalid code")
	ErrCodeExpired       = errors.New("code expired")
	ErrAccountExists     = errors.New("user already exists")
	ErrSMSDeliveryFailed = errors.New("failed to send SMS")
)

const defaultCodeTTL = 5 * time.Minute

// SMSSender — внешний SMS-шлюз.
type SMSSender interface {
	SendSMS(ctx context.Context, to, text string) error
}

type RegistrationService interface {
	RequestCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) error
	CompleteRegistration(ctx context.Context, phone, code, password string) (int64, error)
}

type registrationService struct {
	verifRepo repositories.PhoneVerificationRepository
	userRepo  repositories.UserRepository
	auth      AuthService
	sms       SMSSender
	gen       *CodeGenerator
	codeTTL   time.Duration
}

func NewRegistrationService(
	verifRepo repositories.PhoneVerificationRepository,
	userRepo repositories.UserRepository,
	auth AuthService,
	sms SMSSender,
	gen *CodeGenerator,
	codeTTL time.Duration,
) RegistrationService {
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	return &registrationService{
		verifRepo: verifRepo,
		userRepo:  userRepo,
		auth:      auth,
		sms:       sms,
		gen:       gen,
		codeTTL:   codeTTL,
	}
}

// RequestCode — новый код вытесняет старый (одна запись на номер).
// При ошибке шлюза запись откатываем, чтобы не оставлять живой код.
func (s *registrationService) RequestCode(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	code := s.gen.Generate()

	if _, err := s.verifRepo.Replace(ctx, phone, code, time.Now().Add(s.codeTTL)); err != nil {
		return err
	}

	text := fmt.Sprintf("Ваш код: %s", code)
	if err := s.sms.SendSMS(ctx, phone, text); err != nil {
		log.Printf("[register][request-code] sms gateway error for phone=%q: %v", phone, err)
		metrics.SMSSent.WithLabelValues("failure").Inc()
		if delErr := s.verifRepo.DeleteByPhone(ctx, phone); delErr != nil {
			log.Printf("[register][request-code] rollback failed for phone=%q: %v", phone, delErr)
		}
		return fmt.Errorf("%w: %v", ErrSMSDeliveryFailed, err)
	}

	metrics.SMSSent.WithLabelValues("success").Inc()
	log.Printf("[register][request-code] code issued for phone=%q", phone)
	return nil
}

// VerifyCode — чистая проверка, ничего не мутирует. UX-шаг перед вводом пароля.
func (s *registrationService) VerifyCode(ctx context.Context, phone, code string) error {
	_, err := s.findValid(ctx, strings.TrimSpace(phone), strings.TrimSpace(code))
	return err
}

func (s *registrationService) CompleteRegistration(ctx context.Context, phone, code, password string) (int64, error) {
	phone = strings.TrimSpace(phone)

	// Код мог быть вытеснен новым RequestCode после UX-проверки — это
	// ожидаемо: код одноразовый в рамках поколения выдачи.
	if _, err := s.findValid(ctx, phone, strings.TrimSpace(code)); err != nil {
		return 0, err
	}

	// Быстрая проверка; настоящая защита — уникальный индекс users.phone.
	existing, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrAccountExists
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return 0, err
	}

	user := &models.User{Phone: phone, PasswordHash: hash, IsActive: true}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicatePhone) {
			return 0, ErrAccountExists
		}
		return 0, err
	}

	if err := s.verifRepo.DeleteByPhone(ctx, phone); err != nil {
		log.Printf("[register][complete] consume code failed for phone=%q: %v", phone, err)
	}

	metrics.Registrations.Inc()
	log.Printf("[register][complete] userID=%d phone=%q", user.ID, phone)
	return user.ID, nil
}

func (s *registrationService) findValid(ctx context.Context, phone, code string) (*models.PhoneVerification, error) {
	v, err := s.verifRepo.Find(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrCodeInvalid
	}
	if time.Now().After(v.ExpiresAt) {
		return nil, ErrCodeExpired
	}
	return v, nil
}
