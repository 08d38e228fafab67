// Package api exposes the transaction listing over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/transaction-api/internal/api/middleware"
	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/paymentclient"
)

// TransactionLister produces a page of enriched payments for a request
type TransactionLister interface {
	List(ctx context.Context, req models.FilterRequest) (models.ResponseEnvelope, error)
}

// TransactionHandler serves GET /api/transactions
type TransactionHandler struct {
	lister TransactionLister
}

// NewTransactionHandler creates a handler backed by lister
func NewTransactionHandler(lister TransactionLister) *TransactionHandler {
	return &TransactionHandler{lister: lister}
}

// listQuery mirrors the query string of a listing request
type listQuery struct {
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
	UserID    string `form:"userId"`
	Service   string `form:"service"`
	Status    string `form:"status"`
	Reference string `form:"reference"`
	Offset    *int   `form:"offset"`
	Limit     *int   `form:"limit"`
}

// dateTimeLayouts are tried in order; the zone-less one parses as UTC
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// parseDateTime parses an ISO-8601 date-time, with or without a zone offset
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q, expected ISO-8601 such as 2024-01-31T23:59:59", s)
}

func optionalDateTime(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseDateTime(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

// pageParam applies the default to an absent parameter and checks its range
func pageParam(name string, v *int, def, lo, hi int) (int, error) {
	if v == nil {
		return def, nil
	}
	if *v < lo || *v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return *v, nil
}

// toFilterRequest validates the query and converts it to its canonical form
func (q listQuery) toFilterRequest() (models.FilterRequest, error) {
	offset, err := pageParam("offset", q.Offset, models.DefaultOffset, 0, models.MaxOffset)
	if err != nil {
		return models.FilterRequest{}, err
	}
	limit, err := pageParam("limit", q.Limit, models.DefaultLimit, 1, models.MaxLimit)
	if err != nil {
		return models.FilterRequest{}, err
	}

	from, err := optionalDateTime("dateFrom", q.DateFrom)
	if err != nil {
		return models.FilterRequest{}, err
	}
	to, err := optionalDateTime("dateTo", q.DateTo)
	if err != nil {
		return models.FilterRequest{}, err
	}

	return models.FilterRequest{
		DateFrom:  from,
		DateTo:    to,
		UserID:    models.OptionalString(q.UserID),
		Service:   models.OptionalString(q.Service),
		Status:    models.OptionalString(q.Status),
		Reference: models.OptionalString(q.Reference),
		Offset:    offset,
		Limit:     limit,
	}, nil
}

// List handles GET /api/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req, err := q.toFilterRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.lister.List(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeError maps pipeline errors to a bodiless status
func (h *TransactionHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var statusErr *paymentclient.StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.StatusCode
	}

	log.WithFields(log.Fields{
		"request_id": middleware.RequestIDFrom(c),
		"status":     status,
		"error":      err.Error(),
	}).Error("Failed to list transactions")

	c.AbortWithStatus(status)
}
