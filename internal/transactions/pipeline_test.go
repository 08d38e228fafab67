package transactions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/store"
	"github.com/ashendes/transaction-api/internal/store/memory"
	storeMocks "github.com/ashendes/transaction-api/internal/store/mocks"
	"github.com/ashendes/transaction-api/internal/transactions/mocks"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func record(paymentID, status string) models.TransactionRecord {
	return models.TransactionRecord{
		PaymentID:       paymentID,
		UserID:          "USER001",
		Service:         "PAYMENT_SERVICE",
		Status:          status,
		Reference:       "REF-" + paymentID,
		Amount:          decimal.RequireFromString("100.50"),
		TransactionDate: testTime,
		CreatedAt:       testTime,
		UpdatedAt:       testTime.Add(time.Minute),
	}
}

func remotePayment(paymentID string) models.Payment {
	return models.Payment{
		ID:       paymentID,
		Status:   models.PaymentStatusUnknown,
		Amount:   decimal.RequireFromString("1.00"),
		Currency: "USD",
		Method:   "CARD",
	}
}

func defaultRequest() models.FilterRequest {
	return models.FilterRequest{Offset: 0, Limit: 10}
}

func paymentIDs(payments []models.Payment) []string {
	ids := make([]string, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPipeline_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		records       []models.TransactionRecord
		lookupErrors  map[string]error // paymentID -> error
		expectedIDs   []string
		validateData  func(t *testing.T, data []models.Payment)
		expectedLinks []models.Link
	}{
		{
			name: "success: all lookups succeed, sorted by id descending",
			records: []models.TransactionRecord{
				record("PAY001", models.PaymentStatusCompleted),
				record("PAY003", models.PaymentStatusCompleted),
				record("PAY002", models.PaymentStatusPending),
			},
			expectedIDs: []string{"PAY003", "PAY002", "PAY001"},
			validateData: func(t *testing.T, data []models.Payment) {
				for _, p := range data {
					require.Equal(t, "USD", p.Currency)
					require.Equal(t, "CARD", p.Method)
				}
				require.Equal(t, models.PaymentStatusPending, data[1].Status)
			},
			expectedLinks: []models.Link{{Href: "/api/transactions", Rel: "self"}},
		},
		{
			name:         "fallback: lookup fails, record still returned",
			records:      []models.TransactionRecord{record("PAY004", models.PaymentStatusFailed)},
			lookupErrors: map[string]error{"PAY004": errors.New("payment service returned status 404")},
			expectedIDs:  []string{"PAY004"},
			validateData: func(t *testing.T, data []models.Payment) {
				rec := record("PAY004", models.PaymentStatusFailed)
				require.Equal(t, models.Payment{
					ID:        rec.PaymentID,
					UserID:    rec.UserID,
					Service:   rec.Service,
					Status:    models.PaymentStatusFailed,
					Reference: rec.Reference,
					Amount:    rec.Amount,
					CreatedAt: rec.CreatedAt,
					UpdatedAt: rec.UpdatedAt,
				}, data[0])
			},
			expectedLinks: []models.Link{{Href: "/api/transactions", Rel: "self"}},
		},
		{
			name: "partial failure: failed lookups fall back, others are enriched",
			records: []models.TransactionRecord{
				record("PAY002", models.PaymentStatusPending),
				record("PAY005", models.PaymentStatusCompleted),
				record("PAY004", models.PaymentStatusFailed),
			},
			lookupErrors: map[string]error{"PAY005": context.DeadlineExceeded},
			expectedIDs:  []string{"PAY005", "PAY004", "PAY002"},
			validateData: func(t *testing.T, data []models.Payment) {
				require.Empty(t, data[0].Currency)
				require.Equal(t, "USD", data[1].Currency)
				require.Equal(t, "USD", data[2].Currency)
			},
			expectedLinks: []models.Link{{Href: "/api/transactions", Rel: "self"}},
		},
		{
			name:          "empty: no matching records",
			records:       nil,
			expectedIDs:   []string{},
			expectedLinks: []models.Link{{Href: "/api/transactions", Rel: "self"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storeMocks.NewTransactionStore(t)
			lookup := mocks.NewPaymentLookup(t)

			req := defaultRequest()
			s.On("FindFiltered", mock.Anything, store.Filter{}, store.PageRequest{Index: 0, Size: 10}).
				Return(store.NewPage(tt.records, PageFor(req), len(tt.records)), nil).
				Once()

			for _, rec := range tt.records {
				if err, ok := tt.lookupErrors[rec.PaymentID]; ok {
					lookup.On("RetrievePayment", mock.Anything, rec.PaymentID).
						Return(models.Payment{}, err).Once()
					continue
				}
				lookup.On("RetrievePayment", mock.Anything, rec.PaymentID).
					Return(remotePayment(rec.PaymentID), nil).Once()
			}

			pipeline := NewPipeline(s, lookup, NewLinkBuilder(""))
			resp, err := pipeline.List(ctx, req)
			require.NoError(t, err)

			require.NotNil(t, resp.Data)
			require.Len(t, resp.Data, len(tt.records))
			require.Equal(t, tt.expectedIDs, paymentIDs(resp.Data))
			require.Equal(t, tt.expectedLinks, resp.Links)
			if tt.validateData != nil {
				tt.validateData(t, resp.Data)
			}
		})
	}
}

func TestPipeline_List_StoreStatusWinsOverRemote(t *testing.T) {
	s := storeMocks.NewTransactionStore(t)
	lookup := mocks.NewPaymentLookup(t)

	rec := record("PAY001", models.PaymentStatusCompleted)
	s.On("FindFiltered", mock.Anything, mock.Anything, mock.Anything).
		Return(store.NewPage([]models.TransactionRecord{rec}, store.PageRequest{Size: 10}, 1), nil)
	lookup.On("RetrievePayment", mock.Anything, "PAY001").
		Return(models.Payment{
			ID:        "SOMETHING-ELSE",
			UserID:    "USER999",
			Status:    models.PaymentStatusUnknown,
			Amount:    decimal.RequireFromString("0.01"),
			Currency:  "EUR",
			Method:    "SEPA",
			CreatedAt: testTime.Add(-time.Hour),
		}, nil)

	resp, err := NewPipeline(s, lookup, NewLinkBuilder("")).List(context.Background(), defaultRequest())
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)

	got := resp.Data[0]
	require.Equal(t, "PAY001", got.ID)
	require.Equal(t, "USER001", got.UserID)
	require.Equal(t, models.PaymentStatusCompleted, got.Status)
	require.True(t, rec.Amount.Equal(got.Amount))
	require.Equal(t, rec.CreatedAt, got.CreatedAt)
	require.Equal(t, "EUR", got.Currency)
	require.Equal(t, "SEPA", got.Method)
}

func TestPipeline_List_TranslatesRequest(t *testing.T) {
	s := storeMocks.NewTransactionStore(t)
	lookup := mocks.NewPaymentLookup(t)

	from := testTime.Add(-24 * time.Hour)
	to := testTime
	req := models.FilterRequest{
		DateFrom:  &from,
		DateTo:    &to,
		UserID:    models.OptionalString("USER001"),
		Service:   models.OptionalString("PAYMENT_SERVICE"),
		Status:    models.OptionalString(""),
		Reference: models.OptionalString("REF001"),
		Offset:    25,
		Limit:     10,
	}

	s.On("FindFiltered", mock.Anything, mock.MatchedBy(func(f store.Filter) bool {
		return f.DateFrom.Equal(from) && f.DateTo.Equal(to) &&
			*f.UserID == "USER001" && *f.Service == "PAYMENT_SERVICE" &&
			f.Status == nil && *f.Reference == "REF001"
	}), store.PageRequest{Index: 2, Size: 10}).
		Return(store.Page{Records: []models.TransactionRecord{}, HasNext: true, HasPrevious: true, Total: 40}, nil).
		Once()

	resp, err := NewPipeline(s, lookup, NewLinkBuilder("")).List(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, resp.Data)
	require.Equal(t, []models.Link{
		{Href: "/api/transactions", Rel: "self"},
		{Href: "/api/transactions?offset=35&limit=10", Rel: "next"},
		{Href: "/api/transactions?offset=15&limit=10", Rel: "previous"},
	}, resp.Links)
}

func TestPipeline_List_StoreError(t *testing.T) {
	s := storeMocks.NewTransactionStore(t)
	lookup := mocks.NewPaymentLookup(t)

	storeErr := errors.New("connection refused")
	s.On("FindFiltered", mock.Anything, mock.Anything, mock.Anything).Return(store.Page{}, storeErr)

	_, err := NewPipeline(s, lookup, NewLinkBuilder("")).List(context.Background(), defaultRequest())
	require.Error(t, err)
	require.ErrorIs(t, err, storeErr)
	lookup.AssertNotCalled(t, "RetrievePayment", mock.Anything, mock.Anything)
}

func TestPipeline_List_PanicFailsRequest(t *testing.T) {
	s := storeMocks.NewTransactionStore(t)
	records := []models.TransactionRecord{
		record("PAY001", models.PaymentStatusCompleted),
		record("PAY002", models.PaymentStatusCompleted),
	}
	s.On("FindFiltered", mock.Anything, mock.Anything, mock.Anything).
		Return(store.NewPage(records, store.PageRequest{Size: 10}, 2), nil)

	lookup := lookupFunc(func(_ context.Context, id string) (models.Payment, error) {
		if id == "PAY002" {
			panic("boom")
		}
		return remotePayment(id), nil
	})

	_, err := NewPipeline(s, lookup, NewLinkBuilder("")).List(context.Background(), defaultRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "PAY002")
}

func TestPipeline_List_LookupsRunConcurrently(t *testing.T) {
	const n = 8

	mem := memory.New()
	for i := 0; i < n; i++ {
		rec := record(fmt.Sprintf("PAY%03d", i), models.PaymentStatusCompleted)
		require.NoError(t, mem.Save(context.Background(), &rec))
	}

	// Every lookup blocks until all n are in flight; a sequential
	// fan-out would never release and each call would time out.
	var started atomic.Int32
	allStarted := make(chan struct{})
	lookup := lookupFunc(func(ctx context.Context, id string) (models.Payment, error) {
		if started.Add(1) == n {
			close(allStarted)
		}
		select {
		case <-allStarted:
			return remotePayment(id), nil
		case <-time.After(2 * time.Second):
			return models.Payment{}, errors.New("timed out waiting for siblings")
		}
	})

	resp, err := NewPipeline(mem, lookup, NewLinkBuilder("")).List(context.Background(), defaultRequest())
	require.NoError(t, err)
	require.Len(t, resp.Data, n)
	for _, p := range resp.Data {
		require.Equal(t, "USD", p.Currency, "payment %s was not enriched", p.ID)
	}
}

func TestPipeline_List_SlowFailureDoesNotDropSiblings(t *testing.T) {
	mem := memory.New()
	for _, id := range []string{"PAY001", "PAY002", "PAY003"} {
		rec := record(id, models.PaymentStatusCompleted)
		require.NoError(t, mem.Save(context.Background(), &rec))
	}

	lookup := lookupFunc(func(ctx context.Context, id string) (models.Payment, error) {
		if id == "PAY002" {
			time.Sleep(50 * time.Millisecond)
			return models.Payment{}, context.DeadlineExceeded
		}
		return remotePayment(id), nil
	})

	resp, err := NewPipeline(mem, lookup, NewLinkBuilder("")).List(context.Background(), defaultRequest())
	require.NoError(t, err)
	require.Equal(t, []string{"PAY003", "PAY002", "PAY001"}, paymentIDs(resp.Data))
	require.Equal(t, "USD", resp.Data[0].Currency)
	require.Empty(t, resp.Data[1].Currency)
	require.Equal(t, "USD", resp.Data[2].Currency)
}

func TestPipeline_List_Idempotent(t *testing.T) {
	mem := memory.New()
	for _, id := range []string{"PAY010", "PAY002", "pay003", "PAY001", "PAY020"} {
		rec := record(id, models.PaymentStatusCompleted)
		require.NoError(t, mem.Save(context.Background(), &rec))
	}

	// Random delays shuffle completion order between runs
	rng := rand.New(rand.NewSource(7))
	delays := make(map[string]time.Duration)
	for _, id := range []string{"PAY010", "PAY002", "pay003", "PAY001", "PAY020"} {
		delays[id] = time.Duration(rng.Intn(20)) * time.Millisecond
	}
	lookup := lookupFunc(func(ctx context.Context, id string) (models.Payment, error) {
		time.Sleep(delays[id])
		if id == "PAY002" {
			return models.Payment{}, errors.New("unavailable")
		}
		return remotePayment(id), nil
	})

	pipeline := NewPipeline(mem, lookup, NewLinkBuilder(""))
	req := models.FilterRequest{Offset: 0, Limit: 3}

	first, err := pipeline.List(context.Background(), req)
	require.NoError(t, err)
	second, err := pipeline.List(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, []string{"pay003", "PAY010", "PAY002"}, paymentIDs(first.Data))
}

func TestPipeline_List_OffsetFarPastTheEnd(t *testing.T) {
	mem := memory.New()
	for _, id := range []string{"PAY001", "PAY002", "PAY003", "PAY004", "PAY005"} {
		rec := record(id, models.PaymentStatusCompleted)
		require.NoError(t, mem.Save(context.Background(), &rec))
	}
	lookup := lookupFunc(func(_ context.Context, id string) (models.Payment, error) {
		return remotePayment(id), nil
	})

	resp, err := NewPipeline(mem, lookup, NewLinkBuilder("")).
		List(context.Background(), models.FilterRequest{Offset: math.MaxInt, Limit: 2})
	require.NoError(t, err)

	require.Empty(t, resp.Data)
	require.Equal(t, []models.Link{
		{Href: "/api/transactions", Rel: models.RelSelf},
		{Href: fmt.Sprintf("/api/transactions?offset=%d&limit=2", math.MaxInt-2), Rel: models.RelPrevious},
	}, resp.Links)
}

func TestPipeline_List_CompleteAndOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		mem := memory.New()
		count := rng.Intn(30)
		failing := make(map[string]bool)
		for i := 0; i < count; i++ {
			id := fmt.Sprintf("PAY%04d", rng.Intn(10000))
			rec := record(id, models.PaymentStatusCompleted)
			require.NoError(t, mem.Save(context.Background(), &rec))
			failing[id] = rng.Intn(3) == 0
		}

		lookup := lookupFunc(func(ctx context.Context, id string) (models.Payment, error) {
			if failing[id] {
				return models.Payment{}, errors.New("lookup failed")
			}
			return remotePayment(id), nil
		})

		req := models.FilterRequest{Offset: rng.Intn(20), Limit: 1 + rng.Intn(15)}
		page, err := mem.FindFiltered(context.Background(), FilterFor(req), PageFor(req))
		require.NoError(t, err)

		resp, err := NewPipeline(mem, lookup, NewLinkBuilder("")).List(context.Background(), req)
		require.NoError(t, err)

		require.Len(t, resp.Data, len(page.Records))
		for i := 1; i < len(resp.Data); i++ {
			require.GreaterOrEqual(t, strings.Compare(resp.Data[i-1].ID, resp.Data[i].ID), 0)
		}
		require.Equal(t, 1, countRel(resp.Links, models.RelSelf))
	}
}

// lookupFunc adapts a function to PaymentLookup
type lookupFunc func(ctx context.Context, paymentID string) (models.Payment, error)

func (f lookupFunc) RetrievePayment(ctx context.Context, paymentID string) (models.Payment, error) {
	return f(ctx, paymentID)
}

func countRel(links []models.Link, rel string) int {
	n := 0
	for _, l := range links {
		if l.Rel == rel {
			n++
		}
	}
	return n
}
