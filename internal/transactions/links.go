package transactions

import (
	"fmt"
	"math"

	"github.com/ashendes/transaction-api/internal/models"
	"github.com/ashendes/transaction-api/internal/store"
)

// DefaultBasePath is the listing endpoint links point at
const DefaultBasePath = "/api/transactions"

// LinkBuilder derives navigation links for a page of results
type LinkBuilder struct {
	basePath string
}

// NewLinkBuilder creates a LinkBuilder rooted at basePath
func NewLinkBuilder(basePath string) LinkBuilder {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return LinkBuilder{basePath: basePath}
}

// Build returns the self link plus next/previous when the page has them.
// Only offset and limit are carried into next/previous; filters are not.
func (b LinkBuilder) Build(req models.FilterRequest, page store.Page) []models.Link {
	links := []models.Link{{Href: b.basePath, Rel: models.RelSelf}}

	if page.HasNext {
		links = append(links, models.Link{
			Href: b.pageHref(addSaturating(req.Offset, req.Limit), req.Limit),
			Rel:  models.RelNext,
		})
	}

	if page.HasPrevious {
		links = append(links, models.Link{
			Href: b.pageHref(max(0, req.Offset-req.Limit), req.Limit),
			Rel:  models.RelPrevious,
		})
	}

	return links
}

func (b LinkBuilder) pageHref(offset, limit int) string {
	return fmt.Sprintf("%s?offset=%d&limit=%d", b.basePath, offset, limit)
}

// addSaturating adds two non-negative ints, stopping at math.MaxInt
func addSaturating(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
