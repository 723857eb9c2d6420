package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"smsauth/internal/models"
	"smsauth/internal/repositories"
)

type fakeVerifRepo struct {
	mu     sync.Mutex
	recs   map[string]*models.PhoneVerification
	nextID int64
}

func newFakeVerifRepo() *fakeVerifRepo {
	return &fakeVerifRepo{recs: make(map[string]*models.PhoneVerification)}
}

func (f *fakeVerifRepo) Replace(_ context.Context, phone, code string, expiresAt time.Time) (*models.PhoneVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v := &models.PhoneVerification{
		ID:        f.nextID,
		Phone:     phone,
		Code:      code,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	f.recs[phone] = v
	return v, nil
}

func (f *fakeVerifRepo) Find(_ context.Context, phone, code string) (*models.PhoneVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.recs[phone]
	if !ok || v.Code != code {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVerifRepo) DeleteByPhone(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recs, phone)
	return nil
}

func (f *fakeVerifRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recs)
}

func (f *fakeVerifRepo) expire(phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.recs[phone]; ok {
		v.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Phone]; ok {
		return repositories.ErrDuplicatePhone
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.Phone] = &cp
	return nil
}

func (f *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[phone]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return errors.New("user not found")
}

type sentSMS struct {
	to   string
	text string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{to: to, text: text})
	return nil
}

func (f *fakeSMS) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return strings.TrimPrefix(f.sent[len(f.sent)-1].text, "Ваш код: ")
}
