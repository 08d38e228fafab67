package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/transaction-api/internal/config"
	"github.com/ashendes/transaction-api/internal/store"
	"github.com/ashendes/transaction-api/internal/store/memory"
	"github.com/ashendes/transaction-api/internal/store/postgres"
)

// backend is an opened transaction store
type backend interface {
	store.TransactionStore
	store.Writer
}

// openStore opens the store selected by driver. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, driver string) (backend, func(), error) {
	switch driver {
	case config.StoreDriverMemory:
		return memory.New(), func() {}, nil

	case config.StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the %s store", driver)
		}
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Connected to PostgreSQL")
		return postgres.New(pool), pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", driver)
}
