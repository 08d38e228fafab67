// Package store defines the read contract of the transaction record store.
package store

import (
	"context"
	"math"
	"time"

	"github.com/ashendes/transaction-api/internal/models"
)

// Filter restricts a transaction query. A nil field is not applied;
// the rest combine with AND. Date bounds are inclusive.
type Filter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	UserID    *string
	Service   *string
	Status    *string
	Reference *string
}

// PageRequest selects one page of a result set
type PageRequest struct {
	Index int
	Size  int
}

// Offset returns the number of rows skipped before the page starts.
// It saturates at math.MaxInt instead of wrapping.
func (p PageRequest) Offset() int {
	if p.Index <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Index > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Index * p.Size
}

// Page is one page of matching transaction records
type Page struct {
	Records     []models.TransactionRecord
	HasNext     bool
	HasPrevious bool
	Total       int
}

// NewPage derives the navigation flags of a page from the total match count
func NewPage(records []models.TransactionRecord, req PageRequest, total int) Page {
	if records == nil {
		records = []models.TransactionRecord{}
	}
	return Page{
		Records:     records,
		HasNext:     total-req.Offset() > req.Size,
		HasPrevious: req.Index > 0,
		Total:       total,
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=TransactionStore --dir=. --output=./mocks --outpkg=mocks

// TransactionStore is the queryable store of transaction records.
// Records within a page are ordered by ascending store id.
type TransactionStore interface {
	// FindFiltered returns the page of records matching filter
	FindFiltered(ctx context.Context, filter Filter, page PageRequest) (Page, error)

	// Ping reports whether the store is reachable
	Ping(ctx context.Context) error
}

// Writer is implemented by stores that can be seeded
type Writer interface {
	// Save inserts rec and fills in its store-assigned fields
	Save(ctx context.Context, rec *models.TransactionRecord) error

	// DeleteAll removes every record
	DeleteAll(ctx context.Context) error
}
