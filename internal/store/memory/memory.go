// Package memory provides an in-process TransactionStore for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/store"
)

// Store keeps transaction records in insertion (id) order
type Store struct {
	mu      sync.RWMutex
	records []models.TransactionRecord
	nextID  int64
	now     func() time.Time
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		nextID: 1,
		now:    time.Now,
	}
}

// FindFiltered implements store.TransactionStore
func (s *Store) FindFiltered(ctx context.Context, filter store.Filter, page store.PageRequest) (store.Page, error) {
	if err := ctx.Err(); err != nil {
		return store.Page{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.TransactionRecord, 0, len(s.records))
	for _, rec := range s.records {
		if matches(filter, rec) {
			matched = append(matched, rec)
		}
	}

	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}

	// Copy so callers never alias the store's backing array
	out := make([]models.TransactionRecord, end-start)
	copy(out, matched[start:end])

	return store.NewPage(out, page, len(matched)), nil
}

// Ping implements store.TransactionStore
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Save implements store.Writer
func (s *Store) Save(ctx context.Context, rec *models.TransactionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec.ID = s.nextID
	s.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	s.records = append(s.records, *rec)
	return nil
}

// DeleteAll implements store.Writer
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

// matches reports whether rec satisfies every filter that is present
func matches(f store.Filter, rec models.TransactionRecord) bool {
	if f.DateFrom != nil && rec.TransactionDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && rec.TransactionDate.After(*f.DateTo) {
		return false
	}
	return equalIfSet(f.UserID, rec.UserID) &&
		equalIfSet(f.Service, rec.Service) &&
		equalIfSet(f.Status, rec.Status) &&
		equalIfSet(f.Reference, rec.Reference)
}

func equalIfSet(want *string, got string) bool {
	return want == nil || *want == got
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.Writer           = (*Store)(nil)
)
