package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/storefront/config"
	"github.com/target/storefront/internal/adapters/storeapi"
	"github.com/target/storefront/internal/observability/statsd"
	"github.com/target/storefront/internal/service"
)

// AppOptions contains what NewApp needs. Redis and HTTPClient are optional
// overrides; when Redis is nil and the config needs it, NewApp connects.
type AppOptions struct {
	Config     config.AppConfig
	Logger     *slog.Logger
	Redis      redis.UniversalClient
	HTTPClient *http.Client
}

// App is one process-lifetime set of storefront services.
type App struct {
	Session *service.SessionService
	Cart    *service.CartService
	Catalog *service.CatalogService
	Sync    *service.Synchronizer
	Stores  *Stores

	logger  *slog.Logger
	closers []func() error
}

// NewApp wires stores, the API client, and the services. Call Start before use
// and Close when done.
func NewApp(ctx context.Context, opts AppOptions) (_ *App, err error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{logger: logger}
	defer func() {
		if err != nil {
			if closeErr := app.Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
		}
	}()

	rdb := opts.Redis
	if rdb == nil && cfg.NeedsRedis() {
		rdb, err = ConnectRedis(ctx, RedisOptions{Config: cfg.Redis, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.closers = append(app.closers, rdb.Close)
	}

	metricsClient, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Metrics.IsEnabled(),
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	app.closers = append(app.closers, metricsClient.Close)

	stores, err := OpenStores(StoreOptions{
		Tokens: cfg.Tokens,
		Cart:   cfg.Cart,
		Redis:  rdb,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	app.Stores = stores
	app.closers = append(app.closers, stores.Close)

	client, err := storeapi.NewClient(storeapi.Config{
		CatalogBaseURL:   cfg.API.CatalogBaseURL,
		ProductsPath:     cfg.API.ProductsPath,
		AuthBaseURL:      cfg.API.AuthBaseURL,
		LoginPath:        cfg.API.LoginPath,
		ProfilePath:      cfg.API.ProfilePath,
		Timeout:          cfg.API.Timeout,
		UserAgent:        cfg.API.UserAgent,
		ErrorMessagePath: cfg.API.ErrorMessagePath,
		HTTPClient:       opts.HTTPClient,
		Metrics:          metricsClient,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	app.Session = service.NewSessionService(service.SessionServiceOptions{
		API:    client,
		Tokens: stores.Tokens,
		Logger: logger,
	})
	app.Cart = service.NewCartService(service.CartServiceOptions{
		Snapshots: stores.Cart,
		Logger:    logger,
	})
	app.Catalog = service.NewCatalogService(service.CatalogServiceOptions{
		API:    client,
		TTL:          cfg.Catalog.ServiceTTL(),
		FetchTimeout: cfg.API.Timeout,
		Logger:       logger,
	})
	app.Sync = service.NewSynchronizer(service.SynchronizerOptions{
		Session: app.Session,
		Cart:    app.Cart,
		Logger:  logger,
	})
	app.closers = append(app.closers, func() error {
		app.Sync.Stop()
		return nil
	})

	return app, nil
}

// Start restores the cart snapshot and the persisted session concurrently,
// then starts the synchronizer so the cart follows the restored flag.
func (a *App) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := a.Cart.Restore(gctx)
		if err == nil {
			return nil
		}
		if ctxErr := gctx.Err(); ctxErr != nil {
			return fmt.Errorf("restore cart: %w", ctxErr)
		}
		// A damaged snapshot leaves an empty cart.
		a.logger.WarnContext(gctx, "restore cart failed", "error", err)
		return nil
	})
	g.Go(func() error {
		restored := a.Session.RestoreSession(gctx)
		a.logger.DebugContext(gctx, "session restored", "authenticated", restored)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.Sync.Start()
	return nil
}

// Close stops the synchronizer and releases resources in reverse order.
// Safe to call more than once.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
