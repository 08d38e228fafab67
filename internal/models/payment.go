package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a transaction record enriched with data from the payment service
type Payment struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Service   string          `json:"service"`
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`

	// Attributes only the payment service knows about. Empty on fallback payments.
	Currency string `json:"currency,omitempty"`
	Method   string `json:"method,omitempty"`
}

// PaymentStatus constants
const (
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusPending   = "PENDING"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusUnknown   = "UNKNOWN"
)
