// Package transactions lists stored transactions enriched with remote payment data.
package transactions

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/transaction-api/internal/metrics"
	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/store"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=PaymentLookup --dir=. --output=./mocks --outpkg=mocks

// PaymentLookup fetches a payment from the payment service
type PaymentLookup interface {
	// RetrievePayment returns the remote view of a payment or an error
	RetrievePayment(ctx context.Context, paymentID string) (models.Payment, error)
}

// Pipeline answers transaction listing requests
type Pipeline struct {
	store    store.TransactionStore
	payments PaymentLookup
	links    LinkBuilder
}

// NewPipeline creates a pipeline over the given store and payment lookup
func NewPipeline(s store.TransactionStore, payments PaymentLookup, links LinkBuilder) *Pipeline {
	return &Pipeline{
		store:    s,
		payments: payments,
		links:    links,
	}
}

// List returns one page of enriched payments with navigation links.
//
// Every record returned by the store yields exactly one payment: lookup
// failures fall back to the record's own data. Errors from the store, or a
// panic during enrichment, fail the whole request.
func (p *Pipeline) List(ctx context.Context, req models.FilterRequest) (models.ResponseEnvelope, error) {
	page, err := p.store.FindFiltered(ctx, FilterFor(req), PageFor(req))
	if err != nil {
		return models.ResponseEnvelope{}, fmt.Errorf("find transactions: %w", err)
	}

	payments, err := p.enrichAll(ctx, page.Records)
	if err != nil {
		return models.ResponseEnvelope{}, err
	}

	sortPayments(payments)
	metrics.TransactionPageSize.Observe(float64(len(payments)))

	return models.ResponseEnvelope{
		Data:  payments,
		Links: p.links.Build(req, page),
	}, nil
}

// outcome is what a single enrichment task produced
type outcome struct {
	payment  models.Payment
	enriched bool
	panicErr error
}

// enrichAll looks up every record concurrently and waits for all of them.
// Each task owns one slot of the outcome slice.
func (p *Pipeline) enrichAll(ctx context.Context, records []models.TransactionRecord) ([]models.Payment, error) {
	outcomes := make([]outcome, len(records))

	var wg sync.WaitGroup
	wg.Add(len(records))
	for i, rec := range records {
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = outcome{panicErr: fmt.Errorf("enrich payment %s: panic: %v", rec.PaymentID, r)}
				}
			}()
			outcomes[i] = p.enrich(ctx, rec)
		}()
	}
	wg.Wait()

	payments := make([]models.Payment, 0, len(outcomes))
	for _, o := range outcomes {
		if o.panicErr != nil {
			return nil, o.panicErr
		}
		label := "fallback"
		if o.enriched {
			label = "enriched"
		}
		metrics.EnrichmentsTotal.WithLabelValues(label).Inc()
		payments = append(payments, o.payment)
	}
	return payments, nil
}

func (p *Pipeline) enrich(ctx context.Context, rec models.TransactionRecord) outcome {
	remote, err := p.payments.RetrievePayment(ctx, rec.PaymentID)
	if err != nil {
		log.WithFields(log.Fields{
			"payment_id": rec.PaymentID,
			"error":      err.Error(),
		}).Warn("Payment lookup failed, using stored transaction data")
		return outcome{payment: fallbackPayment(rec)}
	}
	return outcome{payment: mergePayment(rec, remote), enriched: true}
}

// sortPayments orders payments by id, descending, comparing bytes
func sortPayments(payments []models.Payment) {
	slices.SortStableFunc(payments, func(a, b models.Payment) int {
		return strings.Compare(b.ID, a.ID)
	})
}
