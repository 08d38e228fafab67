// Package paymentclient looks up payments on the remote payment service.
package paymentclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ashendes/transaction-api/internal/metrics"
	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/patterns"
)

// CircuitName is the name of the breaker guarding payment lookups
const CircuitName = "Payment"

// ErrEmptyPaymentID is returned when a lookup is attempted without an id
var ErrEmptyPaymentID = errors.New("payment id cannot be empty")

// StatusError is returned when the payment service answers with a non-2xx status
type StatusError struct {
	PaymentID  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("payment service returned status %d for %s: %s", e.StatusCode, e.PaymentID, e.Body)
}

// Config configures the payment lookup client
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	BulkheadSize int
	BulkheadWait time.Duration
	Breaker      patterns.BreakerConfig
	ServiceName  string // reported in metric labels
}

// Client retrieves payments over HTTP with circuit breaker, bulkhead and timeout
type Client struct {
	http     *resty.Client
	circuit  *patterns.CircuitBreakerWrapper
	bulkhead *patterns.Bulkhead
	timeout  time.Duration
}

// New creates a payment lookup client
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = patterns.DefaultTimeout
	}
	if cfg.BulkheadWait <= 0 {
		cfg.BulkheadWait = patterns.DefaultBulkheadWait
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "transaction-service"
	}
	if cfg.Breaker.IsSuccessful == nil {
		cfg.Breaker.IsSuccessful = countsAsHealthy
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(cfg.Timeout).
			SetRetryCount(0), // No automatic retries, failures go to the fallback
		circuit:  patterns.NewCircuitBreaker(CircuitName, cfg.ServiceName, cfg.Breaker),
		bulkhead: patterns.NewBulkhead(cfg.BulkheadSize, cfg.BulkheadWait, "payment", cfg.ServiceName),
		timeout:  cfg.Timeout,
	}
}

// RetrievePayment fetches the payment with the given id.
// Any failure, including "not found", is returned as an error.
func (c *Client) RetrievePayment(ctx context.Context, paymentID string) (models.Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return models.Payment{}, ErrEmptyPaymentID
	}

	start := time.Now()
	ctx, cancel := patterns.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payment models.Payment
	err := c.bulkhead.Execute(ctx, func() error {
		result, cbErr := c.circuit.Execute(func() (interface{}, error) {
			return c.get(ctx, paymentID)
		})
		if cbErr != nil {
			return patterns.FormatError(CircuitName, cbErr)
		}
		payment = result.(models.Payment)
		return nil
	})

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.PaymentLookupDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	return payment, err
}

// Circuit exposes the breaker for status reporting
func (c *Client) Circuit() *patterns.CircuitBreakerWrapper {
	return c.circuit
}

// Bulkhead exposes the lookup bulkhead for status reporting
func (c *Client) Bulkhead() *patterns.Bulkhead {
	return c.bulkhead
}

func (c *Client) get(ctx context.Context, paymentID string) (models.Payment, error) {
	resp, httpErr := c.http.R().
		SetContext(ctx).
		SetPathParam("paymentId", paymentID).
		Get("/payments/{paymentId}")
	if httpErr != nil {
		return models.Payment{}, fmt.Errorf("HTTP error: %w", httpErr)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return models.Payment{}, &StatusError{
			PaymentID:  paymentID,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	var payment models.Payment
	if err := json.Unmarshal(resp.Body(), &payment); err != nil {
		return models.Payment{}, fmt.Errorf("failed to parse payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// countsAsHealthy keeps client-side errors and caller cancellations
// from tripping the breaker; only server faults and timeouts count.
func countsAsHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < http.StatusInternalServerError
	}
	return false
}
