package domain

import (
	"time"

	"gorm.io/gorm"
)

// Idempotency stores the recorded outcome of an intake request so that a
// retried request with the same Idempotency-Key from the same phone number
// replays the original response instead of reprocessing the message.
//
// Scope is (Phone, Key): distinct senders may reuse the same key without
// colliding.
type Idempotency struct {
	ID        string         `json:"id"     gorm:"type:char(36);primaryKey"`
	Phone     string         `json:"phone"  gorm:"type:varchar(32);not null;uniqueIndex:ux_idem_phone_key,priority:1"`
	Key       string         `json:"key"    gorm:"type:varchar(128);not null;uniqueIndex:ux_idem_phone_key,priority:2"`
	Status    int            `json:"status" gorm:"not null"`
	Body      string         `json:"body"   gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"index"`
	DeletedAt gorm.DeletedAt `json:"-"      gorm:"index"`
}

// TableName returns the database table name for Idempotency.
func (Idempotency) TableName() string { return "idempotency_keys" }
