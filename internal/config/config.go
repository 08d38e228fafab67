// Package config loads transaction-service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds the transaction-service configuration
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`

	PaymentServiceURL   string        `env:"PAYMENT_SERVICE_URL" envDefault:"http://localhost:8082"`
	PaymentTimeout      time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"3s"`
	PaymentBulkheadSize int           `env:"PAYMENT_BULKHEAD_SIZE" envDefault:"20"`

	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	RateLimit       int           `env:"RATE_LIMIT" envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads optional .env files (".env" when none are given) and then the
// process environment. Variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %s", StoreDriverPostgres)
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %s (must be '%s' or '%s')", c.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	if c.PaymentServiceURL == "" {
		return fmt.Errorf("PAYMENT_SERVICE_URL is required")
	}
	if c.PaymentTimeout <= 0 {
		return fmt.Errorf("PAYMENT_TIMEOUT must be positive")
	}
	if c.PaymentBulkheadSize < 1 {
		return fmt.Errorf("PAYMENT_BULKHEAD_SIZE must be at least 1")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT cannot be negative")
	}
	if c.RateLimit > 0 && c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Level returns the configured log level, defaulting to info
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Log writes the configuration to the logger with secrets masked
func (c Config) Log() {
	log.WithFields(log.Fields{
		"app_env":               c.AppEnv,
		"http_addr":             c.HTTPAddr,
		"log_level":             c.LogLevel,
		"store_driver":          c.StoreDriver,
		"database_url":          maskDSN(c.DatabaseURL),
		"payment_service_url":   c.PaymentServiceURL,
		"payment_timeout":       c.PaymentTimeout.String(),
		"payment_bulkhead_size": c.PaymentBulkheadSize,
		"redis_addr":            c.RedisAddr,
		"rate_limit":            c.RateLimit,
		"rate_limit_window":     c.RateLimitWindow.String(),
		"shutdown_timeout":      c.ShutdownTimeout.String(),
	}).Info("Config loaded")
}

// maskDSN hides the password part of a DSN
func maskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
