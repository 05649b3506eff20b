package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. pending is the initial state; delivered, cancelled and
// payment_failed are terminal.
const (
	StatusPending       = "pending"
	StatusConfirmed     = "confirmed"
	StatusPaid          = "paid"
	StatusProcessing    = "processing"
	StatusShipped       = "shipped"
	StatusDelivered     = "delivered"
	StatusCancelled     = "cancelled"
	StatusPaymentFailed = "payment_failed"
)

// ValidStatuses is the full enumerated status set accepted by merchant
// status updates.
var ValidStatuses = map[string]bool{
	StatusPending:       true,
	StatusConfirmed:     true,
	StatusPaid:          true,
	StatusProcessing:    true,
	StatusShipped:       true,
	StatusDelivered:     true,
	StatusCancelled:     true,
	StatusPaymentFailed: true,
}

type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Flavor   string          `json:"flavor,omitempty"`
}

// OrderItems is stored as a single JSONB column; line items are immutable
// after order creation.
type OrderItems []OrderItem

func (i OrderItems) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *OrderItems) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for OrderItems: %T", value)
	}
	return json.Unmarshal(data, i)
}

type Order struct {
	ID                    uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	OrderNumber           string          `gorm:"uniqueIndex;not null" json:"orderNumber"`
	CustomerName          string          `gorm:"not null" json:"customerName"`
	CustomerEmail         string          `gorm:"not null" json:"customerEmail"`
	CustomerPhone         string          `gorm:"not null" json:"customerPhone"`
	Items                 OrderItems      `gorm:"type:jsonb;not null" json:"items"`
	TotalAmount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Currency              string          `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	Status                string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	StripeSessionID       *string         `gorm:"index" json:"stripeSessionId,omitempty"`
	StripePaymentIntentID *string         `gorm:"index" json:"stripePaymentIntentId,omitempty"`
	ReceiptURL            *string         `gorm:"type:varchar(1024)" json:"receiptUrl,omitempty"`
	TrackingNumber        *string         `json:"trackingNumber,omitempty"`
	CreatedAt             time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// IsTerminal reports whether status permits no further lifecycle transitions.
func IsTerminal(status string) bool {
	return status == StatusDelivered || status == StatusCancelled || status == StatusPaymentFailed
}
