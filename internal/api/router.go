package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashendes/transaction-api/internal/api/middleware"
	"github.com/ashendes/transaction-api/internal/metrics"
)

// Dependencies wires the handlers behind the router
type Dependencies struct {
	ServiceName string
	Lister      TransactionLister
	Store       Pinger
	Circuit     CircuitReporter  // optional
	Bulkhead    BulkheadReporter // optional
	RateLimit   gin.HandlerFunc  // optional, applied to /api/transactions
}

// NewRouter builds the gin engine for the transaction service
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())
	router.Use(metrics.PrometheusMiddleware(deps.ServiceName))

	health := NewHealthHandler(deps.Store, deps.Circuit, deps.Bulkhead)
	transactions := NewTransactionHandler(deps.Lister)

	// Health checks (no rate limiting)
	router.GET("/health", health.Health)
	router.GET("/readyz", health.Readiness)

	listing := []gin.HandlerFunc{transactions.List}
	if deps.RateLimit != nil {
		listing = append([]gin.HandlerFunc{deps.RateLimit}, listing...)
	}
	router.GET("/api/transactions", listing...)

	test := router.Group("/api/test")
	test.GET("/health", health.Running)
	test.GET("/sample-request", health.SampleRequest)

	router.GET("/payment/circuit-status", health.CircuitStatus)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
