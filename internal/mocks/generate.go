// Package mocks provides gomock implementations of the storefront ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(tokens, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/target/storefront/internal/ports AuthAPI
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_store_mock.go github.com/target/storefront/internal/ports TokenStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=catalog_api_mock.go github.com/target/storefront/internal/ports CatalogAPI
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cart_snapshot_store_mock.go github.com/target/storefront/internal/ports CartSnapshotStore
