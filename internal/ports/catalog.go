package ports

import (
	"context"

	"github.com/target/storefront/internal/domain/catalog"
)

// CatalogAPI reads the product list from the remote catalog.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}
