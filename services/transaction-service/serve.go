package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ashendes/transaction-api/internal/api"
	"github.com/ashendes/transaction-api/internal/api/middleware"
	"github.com/ashendes/transaction-api/internal/config"
	"github.com/ashendes/transaction-api/internal/patterns"
	"github.com/ashendes/transaction-api/internal/paymentclient"
	"github.com/ashendes/transaction-api/internal/seed"
	"github.com/ashendes/transaction-api/internal/transactions"
)

func serveCmd() *cobra.Command {
	var (
		driver   string
		loadSeed bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.StoreDriver = driver
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.Log()

			return serve(cmd.Context(), cfg, loadSeed)
		},
	}

	cmd.Flags().StringVar(&driver, "store", "", "Store driver, overrides STORE_DRIVER (postgres|memory)")
	cmd.Flags().BoolVar(&loadSeed, "seed", false, "Load the sample transactions before serving")

	return cmd
}

func serve(ctx context.Context, cfg config.Config, loadSeed bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, cfg.StoreDriver)
	if err != nil {
		return err
	}
	defer closeStore()

	if loadSeed {
		n, err := seed.Load(ctx, st, time.Now())
		if err != nil {
			return err
		}
		log.WithField("records", n).Info("Sample transactions loaded")
	}

	// Payment lookups with circuit breaker, bulkhead and per-call timeout
	payments := paymentclient.New(paymentclient.Config{
		BaseURL:      cfg.PaymentServiceURL,
		Timeout:      cfg.PaymentTimeout,
		BulkheadSize: cfg.PaymentBulkheadSize,
		Breaker:      patterns.DefaultBreakerConfig(),
		ServiceName:  serviceName,
	})

	pipeline := transactions.NewPipeline(st, payments, transactions.NewLinkBuilder(transactions.DefaultBasePath))

	deps := api.Dependencies{
		ServiceName: serviceName,
		Lister:      pipeline,
		Store:       st,
		Circuit:     payments.Circuit(),
		Bulkhead:    payments.Bulkhead(),
	}

	if cfg.RedisAddr != "" && cfg.RateLimit > 0 {
		redisClient, err := middleware.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// keep serving without a limit
			log.WithField("error", err.Error()).Warn("Redis unavailable, rate limiting disabled")
		} else {
			defer redisClient.Close()
			deps.RateLimit = middleware.NewRateLimiter(redisClient, cfg.RateLimit, cfg.RateLimitWindow).Handler()
		}
	}

	if cfg.AppEnv != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":        cfg.HTTPAddr,
			"store":       cfg.StoreDriver,
			"payment_url": cfg.PaymentServiceURL,
		}).Info("Transaction Service starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
