package transactions

import (
	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/store"
)

// PageFor maps offset/limit onto a page index and size.
//
// The index is offset/limit rounded down, so an offset that is not a
// multiple of limit yields the page containing it rather than a window
// starting exactly at offset. Clients rely on this mapping; keep it.
func PageFor(req models.FilterRequest) store.PageRequest {
	return store.PageRequest{
		Index: req.Offset / req.Limit,
		Size:  req.Limit,
	}
}

// FilterFor extracts the store filter from a request
func FilterFor(req models.FilterRequest) store.Filter {
	return store.Filter{
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		UserID:    req.UserID,
		Service:   req.Service,
		Status:    req.Status,
		Reference: req.Reference,
	}
}
