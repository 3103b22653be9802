package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/storefront/config"
	apperrors "github.com/target/storefront/internal/errors"
)

func newFakeStore(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt"}`))
	})
	mux.HandleFunc("GET /api/v1/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"email":"john@mail.com","name":"Jhon","role":"customer"}`))
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing"},
			{"id":5,"title":"Bracelet","price":695,"category":"jewelery"}
		]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newCommandContext(t *testing.T, srv *httptest.Server, input string) (*commandContext, *bytes.Buffer) {
	t.Helper()
	cfg := config.AppConfig{
		API: config.APIConfig{
			CatalogBaseURL: srv.URL,
			ProductsPath:   "/products",
			AuthBaseURL:    srv.URL + "/api/v1",
			LoginPath:      "/auth/login",
			ProfilePath:    "/auth/profile",
			Timeout:        2 * time.Second,
		},
		Tokens:  config.TokenStoreConfig{Backend: config.StoreBackendMemory},
		Catalog: config.CatalogConfig{CacheTTL: time.Minute},
	}
	cfg.Sanitize()

	var out bytes.Buffer
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
		In:     strings.NewReader(input),
		Out:    &out,
		Err:    io.Discard,
	}, &out
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(nil, strings.NewReader(""), &out, &errOut)

	assert.Equal(t, 2, code)
	assert.Contains(t, out.String(), "Usage: storefront <command>")
	assert.Contains(t, out.String(), "shell")
}

func TestRun_UnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"checkout"}, strings.NewReader(""), &out, &errOut)

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), `unknown command "checkout"`)
}

func TestShell_CartFollowsSession(t *testing.T) {
	srv := newFakeStore(t)
	script := strings.Join([]string{
		"products",
		"add 1 2",
		"add 5",
		"qty 5 3",
		"cart",
		"login john@mail.com changeme",
		"profile",
		"status",
		"logout",
		"cart",
		"quit",
	}, "\n")
	cc, out := newCommandContext(t, srv, script)

	require.NoError(t, runShell(cc, nil))

	text := out.String()
	assert.Contains(t, text, "Backpack")
	assert.Contains(t, text, "Added 2 x Backpack. Cart has 2 item(s).")
	assert.Contains(t, text, "Cart has 5 item(s).")
	assert.Contains(t, text, "Subtotal: 2304.90")
	assert.Contains(t, text, "Signed in as john@mail.com. Cart has 5 item(s).")
	assert.Contains(t, text, "Jhon")
	assert.Contains(t, text, "Signed out.")
	assert.Contains(t, text, "Cart (guest) is empty.")
}

func TestShell_ReportsErrorsAndContinues(t *testing.T) {
	srv := newFakeStore(t)
	script := strings.Join([]string{
		"fly",
		"add 99",
		"add x",
		"qty 1",
		"profile",
		"status",
	}, "\n")
	cc, out := newCommandContext(t, srv, script)

	require.NoError(t, runShell(cc, nil))

	text := out.String()
	assert.Contains(t, text, `error: unknown command "fly"`)
	assert.Contains(t, text, "error: product 99 not found")
	assert.Contains(t, text, `error: invalid product id "x"`)
	assert.Contains(t, text, "error: usage: qty <id> <n>")
	assert.Contains(t, text, "error: No access token available")
	assert.Contains(t, text, "Signed in  no")
}

func TestRunLogin_PromptsForPassword(t *testing.T) {
	srv := newFakeStore(t)
	t.Setenv(passwordEnv, "")
	cc, out := newCommandContext(t, srv, "changeme\n")

	require.NoError(t, runLogin(cc, []string{"--email", "john@mail.com"}))
	assert.Contains(t, out.String(), "Password: ")
	assert.Contains(t, out.String(), "Signed in as john@mail.com")
}

func TestRunLogin_RequiresEmail(t *testing.T) {
	srv := newFakeStore(t)
	cc, _ := newCommandContext(t, srv, "")

	err := runLogin(cc, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "email", apperrors.GetField(err))
}

func TestShell_AddLargeQuantity(t *testing.T) {
	srv := newFakeStore(t)
	script := strings.Join([]string{
		"add 1",
		"add 1 3",
		"add 1 100000000",
		"add 1 0",
	}, "\n")
	cc, out := newCommandContext(t, srv, script)

	require.NoError(t, runShell(cc, nil))

	text := out.String()
	assert.Contains(t, text, "Added 3 x Backpack. Cart has 4 item(s).")
	assert.Contains(t, text, "Added 100000000 x Backpack. Cart has 100000004 item(s).")
	assert.Contains(t, text, `error: invalid quantity "0"`)
}

func TestRunProducts_FiltersByCategory(t *testing.T) {
	srv := newFakeStore(t)
	cc, out := newCommandContext(t, srv, "")

	require.NoError(t, runProducts(cc, []string{"--category", "Jewelery"}))
	assert.Contains(t, out.String(), "Bracelet")
	assert.NotContains(t, out.String(), "Backpack")
}
