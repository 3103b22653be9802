// Package storeapi is the HTTP client for the remote catalog and auth services.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/catalog"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/observability/metrics"
	"github.com/target/storefront/internal/observability/statsd"
	"github.com/target/storefront/internal/ports"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "storefront"

	maxBodyBytes  = 4 << 20
	maxErrorBytes = 64 << 10

	headerRequestID = "X-Request-ID"
)

var (
	_ ports.AuthAPI    = (*Client)(nil)
	_ ports.CatalogAPI = (*Client)(nil)
)

// Config captures endpoints and transport settings. Callers should pass a
// validated config.
type Config struct {
	CatalogBaseURL string
	ProductsPath   string
	AuthBaseURL    string
	LoginPath      string
	ProfilePath    string

	Timeout   time.Duration
	UserAgent string
	// ErrorMessagePath is a JMESPath expression locating the human message in
	// an error body.
	ErrorMessagePath string

	HTTPClient *http.Client
	Metrics    statsd.Sink
	Logger     *slog.Logger
}

// Client talks to the catalog, login, and profile endpoints.
type Client struct {
	productsURL string
	loginURL    string
	profileURL  string

	timeout   time.Duration
	userAgent string
	messages  *messageExtractor

	http    *http.Client
	metrics statsd.Sink
	logger  *slog.Logger
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	productsURL, err := joinEndpoint(cfg.CatalogBaseURL, cfg.ProductsPath)
	if err != nil {
		return nil, fmt.Errorf("products endpoint: %w", err)
	}
	loginURL, err := joinEndpoint(cfg.AuthBaseURL, cfg.LoginPath)
	if err != nil {
		return nil, fmt.Errorf("login endpoint: %w", err)
	}
	profileURL, err := joinEndpoint(cfg.AuthBaseURL, cfg.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("profile endpoint: %w", err)
	}

	messages, err := newMessageExtractor(cfg.ErrorMessagePath)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		productsURL: productsURL,
		loginURL:    loginURL,
		profileURL:  profileURL,
		timeout:     timeout,
		userAgent:   fallbackString(strings.TrimSpace(cfg.UserAgent), defaultUserAgent),
		messages:    messages,
		http:        hc,
		metrics:     cfg.Metrics,
		logger:      logger.With("component", "storeapi"),
	}, nil
}

// Login posts credentials and returns the issued token pair. A non-2xx answer
// becomes an auth_rejected error carrying the server's message.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (tokens domainauth.Tokens, err error) {
	defer c.observe(ctx, metrics.EndpointLogin, time.Now(), &err)

	body, err := json.Marshal(creds)
	if err != nil {
		return domainauth.Tokens{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode login request")
	}

	resp, err := c.do(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body), c.http)
	if err != nil {
		return domainauth.Tokens{}, err
	}

	if !ok(resp.StatusCode) {
		raw, readErr := readErrorBody(resp)
		if readErr != nil {
			c.logger.DebugContext(ctx, "read login error body failed", "error", readErr)
		}
		msg := fallbackString(c.messages.extract(raw), "Login failed")
		return domainauth.Tokens{}, apperrors.AuthRejected(resp.StatusCode, msg)
	}

	if err := decodeBody(resp, &tokens); err != nil {
		return domainauth.Tokens{}, err
	}
	return tokens, nil
}

// Profile fetches the user for accessToken, sent as a bearer credential.
func (c *Client) Profile(ctx context.Context, accessToken string) (user domainauth.User, err error) {
	defer c.observe(ctx, metrics.EndpointProfile, time.Now(), &err)

	if strings.TrimSpace(accessToken) == "" {
		return domainauth.User{}, apperrors.NoToken("No access token available")
	}

	resp, err := c.do(ctx, http.MethodGet, c.profileURL, nil, c.bearerClient(accessToken))
	if err != nil {
		return domainauth.User{}, err
	}

	if !ok(resp.StatusCode) {
		if _, readErr := readErrorBody(resp); readErr != nil {
			c.logger.DebugContext(ctx, "read profile error body failed", "error", readErr)
		}
		return domainauth.User{}, apperrors.AuthRejected(resp.StatusCode, "Failed to fetch profile")
	}

	if err := decodeBody(resp, &user); err != nil {
		return domainauth.User{}, err
	}
	return user, nil
}

// ListProducts fetches the full product list.
func (c *Client) ListProducts(ctx context.Context) (products []catalog.Product, err error) {
	defer c.observe(ctx, metrics.EndpointProducts, time.Now(), &err)

	resp, err := c.do(ctx, http.MethodGet, c.productsURL, nil, c.http)
	if err != nil {
		return nil, err
	}

	if !ok(resp.StatusCode) {
		raw, _ := readErrorBody(resp)
		msg := fallbackString(c.messages.extract(raw), fmt.Sprintf("catalog returned status %d", resp.StatusCode))
		return nil, apperrors.Upstream(resp.StatusCode, msg)
	}

	if err := decodeBody(resp, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) bearerClient(accessToken string) *http.Client {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout:       c.http.Timeout,
		CheckRedirect: c.http.CheckRedirect,
		Transport: &oauth2.Transport{
			Base:   base,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
		},
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, hc *http.Client) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		cancel()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		cancel()
		return nil, apperrors.MapTransportError(err)
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}

	c.logger.DebugContext(ctx, "api response",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(headerRequestID),
	)
	return resp, nil
}

func (c *Client) observe(ctx context.Context, endpoint string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.EmitAPICall(c.metrics, metrics.APICall{
		Endpoint: endpoint,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		c.logger.DebugContext(ctx, "api call failed", "endpoint", endpoint, "code", apperrors.GetCode(err))
	}
}

// cancelOnClose releases the per-request timeout once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func decodeBody(resp *http.Response, dst any) error {
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	decodeErr := dec.Decode(dst)
	closeErr := drainAndClose(resp)

	if decodeErr != nil {
		mapped := apperrors.MapTransportError(decodeErr)
		if apperrors.IsTimeout(mapped) || apperrors.IsCanceled(mapped) {
			return mapped
		}
		return apperrors.Wrap(decodeErr, apperrors.ErrCodeInternal, "decode response")
	}
	if closeErr != nil {
		return apperrors.Wrap(closeErr, apperrors.ErrCodeInternal, "close response")
	}
	return nil
}

func readErrorBody(resp *http.Response) ([]byte, error) {
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	closeErr := drainAndClose(resp)
	if readErr != nil || closeErr != nil {
		return raw, errors.Join(readErr, closeErr)
	}
	return raw, nil
}

func drainAndClose(resp *http.Response) error {
	_, drainErr := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	closeErr := resp.Body.Close()
	if drainErr != nil {
		return fmt.Errorf("drain response body: %w", drainErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close response body: %w", closeErr)
	}
	return nil
}

func joinEndpoint(base, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q must include scheme and host", base)
	}
	return u.JoinPath(strings.TrimSpace(path)).String(), nil
}

func ok(status int) bool { return status >= 200 && status < 300 }

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
