package models

import (
	"time"

	"github.com/google/uuid"
)

// Refund records one provider-side refund against an order. Amount is kept
// in minor currency units (paise) exactly as sent to the provider.
type Refund struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	StripeRefundID        string    `gorm:"uniqueIndex;not null" json:"refundId"`
	OrderNumber           string    `gorm:"index;not null" json:"orderNumber"`
	StripePaymentIntentID string    `gorm:"not null" json:"stripePaymentIntentId"`
	Amount                int64     `gorm:"not null" json:"amount"`
	Currency              string    `gorm:"type:varchar(3);not null" json:"currency"`
	Reason                string    `json:"reason,omitempty"`
	Status                string    `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
