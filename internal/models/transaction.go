package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord represents a stored financial transaction
type TransactionRecord struct {
	ID              int64           `json:"id"`
	PaymentID       string          `json:"paymentId"`
	UserID          string          `json:"userId"`
	Service         string          `json:"service"`
	Status          string          `json:"status"`
	Reference       string          `json:"reference"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
