package models

import "time"

// PhoneVerification — одна активная запись на номер: старые коды
// удаляются перед вставкой нового.
type PhoneVerification struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
