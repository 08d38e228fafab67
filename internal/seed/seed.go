// Package seed provides the sample data used by development harnesses.
// Nothing in here runs unless a caller asks for it.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/store"
)

// Transactions returns the sample transaction records relative to now
func Transactions(now time.Time) []models.TransactionRecord {
	return []models.TransactionRecord{
		{PaymentID: "PAY001", UserID: "USER001", Service: "PAYMENT_SERVICE", Status: models.PaymentStatusCompleted,
			Reference: "REF001", Amount: decimal.RequireFromString("100.50"), TransactionDate: now.Add(-24 * time.Hour)},
		{PaymentID: "PAY002", UserID: "USER002", Service: "TRANSFER_SERVICE", Status: models.PaymentStatusPending,
			Reference: "REF002", Amount: decimal.RequireFromString("250.75"), TransactionDate: now.Add(-6 * time.Hour)},
		{PaymentID: "PAY003", UserID: "USER001", Service: "PAYMENT_SERVICE", Status: models.PaymentStatusCompleted,
			Reference: "REF003", Amount: decimal.RequireFromString("75.25"), TransactionDate: now.Add(-2 * time.Hour)},
		{PaymentID: "PAY004", UserID: "USER003", Service: "WITHDRAWAL_SERVICE", Status: models.PaymentStatusFailed,
			Reference: "REF004", Amount: decimal.RequireFromString("500.00"), TransactionDate: now.Add(-30 * time.Minute)},
		{PaymentID: "PAY005", UserID: "USER002", Service: "TRANSFER_SERVICE", Status: models.PaymentStatusCompleted,
			Reference: "REF005", Amount: decimal.RequireFromString("150.00"), TransactionDate: now.Add(-15 * time.Minute)},
	}
}

// Payments returns the catalogue served by the payment lookup stub.
// PAY004 is left out on purpose so its lookup fails with 404.
func Payments(now time.Time) []models.Payment {
	var out []models.Payment
	for _, rec := range Transactions(now) {
		if rec.PaymentID == "PAY004" {
			continue
		}
		out = append(out, models.Payment{
			ID:        rec.PaymentID,
			UserID:    rec.UserID,
			Service:   rec.Service,
			Status:    rec.Status,
			Reference: rec.Reference,
			Amount:    rec.Amount,
			CreatedAt: rec.TransactionDate,
			UpdatedAt: rec.TransactionDate,
			Currency:  "USD",
			Method:    "CARD",
		})
	}
	return out
}

// Load clears w and writes the sample transactions into it
func Load(ctx context.Context, w store.Writer, now time.Time) (int, error) {
	if err := w.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("clear store: %w", err)
	}

	records := Transactions(now)
	for i := range records {
		if err := w.Save(ctx, &records[i]); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
