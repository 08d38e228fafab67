// Package postgres implements the transaction store on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/store"
)

// Each filter is skipped when its parameter is NULL.
const whereFiltered = `
	WHERE ($1::timestamptz IS NULL OR transaction_date >= $1)
	  AND ($2::timestamptz IS NULL OR transaction_date <= $2)
	  AND ($3::text IS NULL OR user_id = $3)
	  AND ($4::text IS NULL OR service = $4)
	  AND ($5::text IS NULL OR status = $5)
	  AND ($6::text IS NULL OR reference = $6)`

const selectFiltered = `
	SELECT id, payment_id, COALESCE(user_id, ''), COALESCE(service, ''), COALESCE(status, ''),
	       COALESCE(reference, ''), COALESCE(amount, 0), transaction_date, created_at, updated_at
	FROM financial_transactions` + whereFiltered + `
	ORDER BY id
	LIMIT $7 OFFSET $8`

const countFiltered = `SELECT count(*) FROM financial_transactions` + whereFiltered

// Store implements store.TransactionStore using PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

// New creates a store on top of an existing pool
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// FindFiltered implements store.TransactionStore
func (s *Store) FindFiltered(ctx context.Context, f store.Filter, page store.PageRequest) (store.Page, error) {
	args := []any{f.DateFrom, f.DateTo, f.UserID, f.Service, f.Status, f.Reference}

	var total int
	if err := s.pool.QueryRow(ctx, countFiltered, args...).Scan(&total); err != nil {
		return store.Page{}, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := s.pool.Query(ctx, selectFiltered, append(args, page.Size, page.Offset())...)
	if err != nil {
		return store.Page{}, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return store.Page{}, fmt.Errorf("scan transactions: %w", err)
	}

	return store.NewPage(records, page, total), nil
}

// Ping implements store.TransactionStore
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Save implements store.Writer
func (s *Store) Save(ctx context.Context, rec *models.TransactionRecord) error {
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO financial_transactions
		   (payment_id, user_id, service, status, reference, amount, transaction_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		rec.PaymentID, rec.UserID, rec.Service, rec.Status, rec.Reference,
		rec.Amount, rec.TransactionDate, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", rec.PaymentID, err)
	}
	return nil
}

// DeleteAll implements store.Writer
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM financial_transactions`); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

func scanRecords(rows pgx.Rows) ([]models.TransactionRecord, error) {
	records := make([]models.TransactionRecord, 0)

	for rows.Next() {
		var (
			rec             models.TransactionRecord
			transactionDate *time.Time
		)
		if err := rows.Scan(
			&rec.ID, &rec.PaymentID, &rec.UserID, &rec.Service, &rec.Status,
			&rec.Reference, &rec.Amount, &transactionDate, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if transactionDate != nil {
			rec.TransactionDate = *transactionDate
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.Writer           = (*Store)(nil)
)
