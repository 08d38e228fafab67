package transactions

import "github.com/ashendes/transaction-api/internal/models"

// mergePayment overlays the record onto the remote payment.
// The store is the source of truth for every field it owns, status included;
// only attributes the record does not carry survive from the remote side.
func mergePayment(rec models.TransactionRecord, remote models.Payment) models.Payment {
	p := fallbackPayment(rec)
	p.Currency = remote.Currency
	p.Method = remote.Method
	return p
}

// fallbackPayment builds a payment purely from the stored record
func fallbackPayment(rec models.TransactionRecord) models.Payment {
	return models.Payment{
		ID:        rec.PaymentID,
		UserID:    rec.UserID,
		Service:   rec.Service,
		Status:    rec.Status,
		Reference: rec.Reference,
		Amount:    rec.Amount,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
