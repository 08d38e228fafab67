package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// sampleRequestText documents the listing endpoint for humans
const sampleRequestText = `Sample request URL:
GET /api/transactions?dateFrom=2024-01-01T00:00:00&dateTo=2024-12-31T23:59:59&userId=USER001&service=PAYMENT_SERVICE&status=COMPLETED&reference=REF001&offset=0&limit=10

Available filter parameters:
- dateFrom: Start date (ISO format)
- dateTo: End date (ISO format)
- userId: User ID
- service: Service type
- status: Transaction status
- reference: Reference number
- offset: Pagination offset (default: 0)
- limit: Page size (default: 10)
`

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// CircuitReporter exposes a circuit breaker's state
type CircuitReporter interface {
	Name() string
	GetState() string
	GetStateValue() int
}

// BulkheadReporter exposes a bulkhead's identity and size
type BulkheadReporter interface {
	GetName() string
	Capacity() int
}

// HealthHandler serves liveness, readiness and diagnostic endpoints
type HealthHandler struct {
	store     Pinger
	circuit   CircuitReporter
	bulkhead  BulkheadReporter
	startTime time.Time
}

// NewHealthHandler creates a health handler. circuit and bulkhead may be nil.
func NewHealthHandler(store Pinger, circuit CircuitReporter, bulkhead BulkheadReporter) *HealthHandler {
	return &HealthHandler{
		store:     store,
		circuit:   circuit,
		bulkhead:  bulkhead,
		startTime: time.Now(),
	}
}

// Health reports that the process is up
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Readiness checks the transaction store
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string)
	status, code := "healthy", http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		checks["store"] = "unhealthy: " + err.Error()
		status, code = "unhealthy", http.StatusServiceUnavailable
	} else {
		checks["store"] = "healthy"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// Running answers GET /api/test/health
func (h *HealthHandler) Running(c *gin.Context) {
	c.String(http.StatusOK, "Application is running!")
}

// SampleRequest answers GET /api/test/sample-request
func (h *HealthHandler) SampleRequest(c *gin.Context) {
	c.String(http.StatusOK, sampleRequestText)
}

// CircuitStatus returns the state of the payment circuit breaker and bulkhead
func (h *HealthHandler) CircuitStatus(c *gin.Context) {
	if h.circuit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no circuit configured"})
		return
	}

	status := gin.H{
		"payment_circuit": gin.H{
			"name":  h.circuit.Name(),
			"state": h.circuit.GetState(),
			"value": h.circuit.GetStateValue(),
		},
	}
	if h.bulkhead != nil {
		status["payment_bulkhead"] = gin.H{
			"name":     h.bulkhead.GetName(),
			"capacity": h.bulkhead.Capacity(),
		}
	}

	c.JSON(http.StatusOK, status)
}
