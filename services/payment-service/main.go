package main

import (
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/transaction-api/internal/api/middleware"
	"github.com/ashendes/transaction-api/internal/metrics"
	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/seed"
)

const serviceName = "payment-service"

var errChaos = errors.New("chaos: simulated failure")

// Config holds the payment-service settings
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8082"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// loadConfig reads the configuration from the environment
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PaymentService answers payment lookups from an in-memory catalogue
type PaymentService struct {
	payments      map[string]models.Payment
	mutex         sync.RWMutex
	chaosEnabled  bool
	chaosSlowMode bool
	chaosMutex    sync.RWMutex
	slowDelay     func() time.Duration
}

// NewPaymentService creates a service serving the given payments
func NewPaymentService(payments []models.Payment) *PaymentService {
	ps := &PaymentService{
		payments: make(map[string]models.Payment, len(payments)),
		slowDelay: func() time.Duration {
			return time.Duration(5000+rand.Intn(5000)) * time.Millisecond
		},
	}
	for _, p := range payments {
		ps.payments[p.ID] = p
	}
	return ps
}

func init() {
	// Initialize logger
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	paymentService := NewPaymentService(seed.Payments(time.Now()))

	log.WithField("payments", len(paymentService.payments)).Info("Payment Service starting on " + cfg.HTTPAddr)
	if err := paymentService.Router().Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

// Router builds the gin engine for the payment service
func (ps *PaymentService) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	// Add Prometheus middleware
	router.Use(metrics.PrometheusMiddleware(serviceName))

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/payment/status", ps.getStatus)

	// Payment endpoints
	router.GET("/payments/:paymentId", ps.getPayment)

	// Chaos engineering endpoints
	router.POST("/chaos/payment/enable", ps.enableChaos)
	router.POST("/chaos/payment/disable", ps.disableChaos)
	router.POST("/chaos/payment/slow", ps.enableSlowMode)
	router.POST("/chaos/payment/slow/disable", ps.disableSlowMode)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (ps *PaymentService) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":         serviceName,
		"status":          "healthy",
		"chaos_enabled":   ps.getChaosEnabled(),
		"chaos_slow_mode": ps.getSlowMode(),
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}

func (ps *PaymentService) getPayment(c *gin.Context) {
	paymentID := c.Param("paymentId")

	// Simulate chaos
	if err := ps.simulateChaos(c); err != nil {
		metrics.PaymentLookupsServed.WithLabelValues("chaos").Inc()
		log.WithField("payment_id", paymentID).Warn("Chaos: Simulated payment lookup failure")

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      "Payment service temporarily unavailable: " + err.Error(),
			"payment_id": paymentID,
		})
		return
	}

	ps.mutex.RLock()
	payment, exists := ps.payments[paymentID]
	ps.mutex.RUnlock()

	if !exists {
		metrics.PaymentLookupsServed.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Payment not found",
			"payment_id": paymentID,
		})
		return
	}

	metrics.PaymentLookupsServed.WithLabelValues("found").Inc()
	log.WithFields(log.Fields{
		"request_id": middleware.RequestIDFrom(c),
		"payment_id": paymentID,
	}).Debug("Payment lookup served")

	c.JSON(http.StatusOK, payment)
}

func (ps *PaymentService) enableChaos(c *gin.Context) {
	ps.setChaosEnabled(true)
	metrics.ChaosFailureRate.WithLabelValues(serviceName).Set(1)

	log.Info("Chaos mode ENABLED for payment service")
	c.JSON(http.StatusOK, gin.H{
		"message": "Chaos mode enabled",
		"info":    "40% of lookups will fail randomly",
	})
}

func (ps *PaymentService) disableChaos(c *gin.Context) {
	ps.setChaosEnabled(false)
	ps.setSlowMode(false)
	metrics.ChaosFailureRate.WithLabelValues(serviceName).Set(0)
	metrics.ChaosSlowMode.WithLabelValues(serviceName).Set(0)

	log.Info("Chaos mode DISABLED for payment service")
	c.JSON(http.StatusOK, gin.H{
		"message": "Chaos mode disabled",
	})
}

func (ps *PaymentService) enableSlowMode(c *gin.Context) {
	ps.setSlowMode(true)
	metrics.ChaosSlowMode.WithLabelValues(serviceName).Set(1)

	log.Info("Slow mode ENABLED for payment service")
	c.JSON(http.StatusOK, gin.H{
		"message": "Slow mode enabled",
		"info":    "Lookups will have 5-10 second delays",
	})
}

func (ps *PaymentService) disableSlowMode(c *gin.Context) {
	ps.setSlowMode(false)
	metrics.ChaosSlowMode.WithLabelValues(serviceName).Set(0)

	log.Info("Slow mode DISABLED for payment service")
	c.JSON(http.StatusOK, gin.H{
		"message": "Slow mode disabled",
	})
}

// Helper methods
func (ps *PaymentService) setChaosEnabled(enabled bool) {
	ps.chaosMutex.Lock()
	defer ps.chaosMutex.Unlock()
	ps.chaosEnabled = enabled
}

func (ps *PaymentService) getChaosEnabled() bool {
	ps.chaosMutex.RLock()
	defer ps.chaosMutex.RUnlock()
	return ps.chaosEnabled
}

func (ps *PaymentService) setSlowMode(enabled bool) {
	ps.chaosMutex.Lock()
	defer ps.chaosMutex.Unlock()
	ps.chaosSlowMode = enabled
}

func (ps *PaymentService) getSlowMode() bool {
	ps.chaosMutex.RLock()
	defer ps.chaosMutex.RUnlock()
	return ps.chaosSlowMode
}

// simulateChaos delays and/or fails a lookup when chaos modes are on.
// The delay ends early if the caller goes away.
func (ps *PaymentService) simulateChaos(c *gin.Context) error {
	if ps.getSlowMode() {
		delay := ps.slowDelay()
		log.WithField("delay_ms", delay.Milliseconds()).Debug("Chaos: Simulating slow response")

		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return c.Request.Context().Err()
		}
	}

	// 40% failure rate
	if ps.getChaosEnabled() && rand.Float32() < 0.4 {
		return errChaos
	}

	return nil
}
