// Package catalog defines the read-only product records served by the remote catalog.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/target/storefront/internal/errors"
)

// Rating is the aggregate review score of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product represents a catalog entry. Products are immutable once fetched.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Rating      Rating          `json:"rating"`
}

// Validate checks the invariants the cart relies on. Failures are validation
// errors naming the offending field.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return apperrors.ValidationField("id", "product id must be positive")
	}
	if strings.TrimSpace(p.Title) == "" {
		return apperrors.ValidationField("title", "product title is required")
	}
	if p.Price.IsNegative() {
		return apperrors.ValidationField("price", "product price cannot be negative")
	}
	return nil
}
