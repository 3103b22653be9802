package ports_test

import (
	"testing"

	"github.com/target/storefront/internal/mocks"
	authmocks "github.com/target/storefront/internal/mocks/auth"
	"github.com/target/storefront/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthAPI = (*authmocks.StubAuthAPI)(nil)
	var _ ports.TokenStore = (*authmocks.MemoryTokenStore)(nil)
	var _ ports.CartSnapshotStore = (*authmocks.MemoryCartStore)(nil)

	var _ ports.AuthAPI = (*mocks.MockAuthAPI)(nil)
	var _ ports.TokenStore = (*mocks.MockTokenStore)(nil)
	var _ ports.CatalogAPI = (*mocks.MockCatalogAPI)(nil)
	var _ ports.CartSnapshotStore = (*mocks.MockCartSnapshotStore)(nil)
}
