package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey remembers the response to a submit or hold so a retried request replays
// it instead of settling the same checkout twice
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_cashier_key;size:255;not null"`
	CashierID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_cashier_key"`
	Endpoint     string    `gorm:"size:255;not null"` // method and request path, e.g. "POST /api/v1/checkouts/<id>/submit"
	RequestHash  string    `gorm:"size:64"`           // SHA-256 of the request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Matches reports whether a replay carries the same endpoint and body as the original
func (i *IdempotencyKey) Matches(endpoint, requestHash string) bool {
	return i.Endpoint == endpoint && (i.RequestHash == "" || i.RequestHash == requestHash)
}
