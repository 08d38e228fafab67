package models

import (
	"math"
	"time"
)

// Pagination defaults and bounds for transaction listings
const (
	DefaultOffset = 0
	DefaultLimit  = 10
	MaxOffset     = math.MaxInt32
	MaxLimit      = 1000
)

// FilterRequest is the canonical form of a transaction listing request.
// A nil field means the filter is absent.
type FilterRequest struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	UserID    *string
	Service   *string
	Status    *string
	Reference *string
	Offset    int
	Limit     int
}

// OptionalString turns a raw parameter into an optional filter value.
// An empty string is the same as not passing the filter at all.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
