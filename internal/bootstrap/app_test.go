package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/storefront/config"
	"github.com/target/storefront/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStoreServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "changeme" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt"}`))
	})
	mux.HandleFunc("GET /api/v1/auth/profile", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"email":"john@mail.com","name":"Jhon","role":"customer"}`))
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"Backpack","price":109.95},{"id":2,"title":"T-Shirt","price":22.3}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server, backend config.StoreBackend, dir string) config.AppConfig {
	cfg := config.AppConfig{
		API: config.APIConfig{
			CatalogBaseURL: srv.URL,
			ProductsPath:   "/products",
			AuthBaseURL:    srv.URL + "/api/v1",
			LoginPath:      "/auth/login",
			ProfilePath:    "/auth/profile",
			Timeout:        2 * time.Second,
		},
		Tokens: config.TokenStoreConfig{
			Backend: backend,
			TTL:     time.Hour,
			FileDir: dir,
		},
		Cart:    config.CartConfig{Persist: true},
		Catalog: config.CatalogConfig{CacheTTL: time.Minute},
	}
	cfg.Sanitize()
	return cfg
}

func newTestApp(t *testing.T, cfg config.AppConfig) *App {
	t.Helper()
	app, err := NewApp(context.Background(), AppOptions{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, app.Start(context.Background()))
	return app
}

func TestApp_LoginLogoutDrivesCart(t *testing.T) {
	srv := newStoreServer(t)
	app := newTestApp(t, testConfig(srv, config.StoreBackendMemory, ""))
	ctx := context.Background()

	products, err := app.Catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	app.Cart.AddItem(products[0])
	assert.Equal(t, 1, app.Cart.ItemCount())
	assert.False(t, app.Cart.Authenticated())

	require.NoError(t, app.Session.Login(ctx, "john@mail.com", "changeme"))
	assert.True(t, app.Session.Authenticated())
	assert.True(t, app.Cart.Authenticated())
	assert.Equal(t, 1, app.Cart.ItemCount(), "guest lines merge into the user collection")

	user, err := app.Session.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "john@mail.com", user.Email)

	require.NoError(t, app.Session.Logout(ctx))
	assert.False(t, app.Cart.Authenticated())
	assert.Equal(t, 0, app.Cart.ItemCount(), "user lines are dropped on logout")
}

func TestApp_RejectedLoginLeavesCartAsGuest(t *testing.T) {
	srv := newStoreServer(t)
	app := newTestApp(t, testConfig(srv, config.StoreBackendMemory, ""))

	err := app.Session.Login(context.Background(), "john@mail.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Unauthorized", app.Session.Snapshot().Status.Message)
	assert.False(t, app.Cart.Authenticated())
}

func TestApp_FileBackendSurvivesRestart(t *testing.T) {
	srv := newStoreServer(t)
	cfg := testConfig(srv, config.StoreBackendFile, t.TempDir())
	ctx := context.Background()

	first, err := NewApp(ctx, AppOptions{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)
	require.NoError(t, first.Start(ctx))
	require.NoError(t, first.Session.Login(ctx, "john@mail.com", "changeme"))
	first.Cart.AddItem(testutil.NewProduct(7).Build())
	require.NoError(t, first.Close())

	second := newTestApp(t, cfg)
	assert.True(t, second.Session.Authenticated())
	assert.True(t, second.Cart.Authenticated(), "cart follows the restored session")
	assert.Equal(t, 1, second.Cart.ItemCount())
}

func TestApp_CloseIsIdempotent(t *testing.T) {
	srv := newStoreServer(t)
	app, err := NewApp(context.Background(), AppOptions{
		Config: testConfig(srv, config.StoreBackendMemory, ""),
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	require.NoError(t, app.Close())
	require.NoError(t, app.Close())
}

func TestNewApp_InvalidAPIURL(t *testing.T) {
	srv := newStoreServer(t)
	cfg := testConfig(srv, config.StoreBackendMemory, "")
	cfg.API.AuthBaseURL = "relative/path"

	_, err := NewApp(context.Background(), AppOptions{Config: cfg, Logger: discardLogger()})
	require.Error(t, err)
}
