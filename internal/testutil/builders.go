package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/catalog"
)

// ProductBuilder provides a fluent interface for building catalog products.
type ProductBuilder struct {
	p catalog.Product
}

// NewProduct creates a builder with a valid product.
func NewProduct(id int64) *ProductBuilder {
	return &ProductBuilder{p: catalog.Product{
		ID:          id,
		Title:       "Fjallraven - Foldsack No. 1 Backpack",
		Price:       decimal.RequireFromString("109.95"),
		Image:       "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
		Category:    "men's clothing",
		Description: "Your perfect pack for everyday use.",
		Rating:      catalog.Rating{Rate: 3.9, Count: 120},
	}}
}

// WithTitle sets the title.
func (b *ProductBuilder) WithTitle(title string) *ProductBuilder {
	b.p.Title = title
	return b
}

// WithPrice sets the price from a decimal string.
func (b *ProductBuilder) WithPrice(price string) *ProductBuilder {
	b.p.Price = decimal.RequireFromString(price)
	return b
}

// WithCategory sets the category.
func (b *ProductBuilder) WithCategory(category string) *ProductBuilder {
	b.p.Category = category
	return b
}

// Build returns the product.
func (b *ProductBuilder) Build() catalog.Product {
	return b.p
}

// SignedTokens returns a token pair whose access token is an HS256 JWT expiring at exp.
func SignedTokens(t TestingTB, exp time.Time) domainauth.Tokens {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		IssuedAt:  jwt.NewNumericDate(exp.Add(-20 * 24 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	return domainauth.Tokens{Access: access, Refresh: "refresh-" + claims.Subject}
}
