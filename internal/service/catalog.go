package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/target/storefront/internal/domain/catalog"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/ports"
)

const (
	defaultCatalogTTL   = 5 * time.Minute
	defaultFetchTimeout = 30 * time.Second
	productsKey       = "products"
)

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	API ports.CatalogAPI
	// TTL bounds how long a fetched product list is reused. Zero uses the default;
	// a negative value disables caching.
	TTL time.Duration
	// FetchTimeout bounds a shared upstream fetch, which outlives any single
	// caller's cancellation. Zero uses the default.
	FetchTimeout time.Duration
	Logger       *slog.Logger
	Clock        func() time.Time
}

// CatalogService reads products through a short-lived cache. Concurrent misses
// share one upstream request.
type CatalogService struct {
	api          ports.CatalogAPI
	ttl          time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	products  []catalog.Product
	fetchedAt time.Time
}

// NewCatalogService constructs a CatalogService. API is required.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	if opts.API == nil {
		panic("service: CatalogService requires a CatalogAPI")
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = defaultCatalogTTL
	}
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &CatalogService{
		api:          opts.API,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		logger:       logger.With("component", "catalog"),
		now:          now,
	}
}

// List returns every valid product in catalog order. A caller that gives up
// stops waiting without failing the others sharing the fetch.
func (s *CatalogService) List(ctx context.Context) ([]catalog.Product, error) {
	if cached, ok := s.cached(); ok {
		return cached, nil
	}

	ch := s.group.DoChan(productsKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		raw, err := s.api.ListProducts(fetchCtx)
		if err != nil {
			return nil, err
		}
		valid := make([]catalog.Product, 0, len(raw))
		for _, p := range raw {
			if err := p.Validate(); err != nil {
				s.logger.WarnContext(ctx, "dropped invalid product", "id", p.ID, "field", apperrors.GetField(err))
				continue
			}
			valid = append(valid, p)
		}
		s.store(valid)
		return valid, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, apperrors.MapTransportError(ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		s.logger.DebugContext(ctx, "catalog fetch shared")
	}
	return slices.Clone(res.Val.([]catalog.Product)), nil
}

// Get returns the product with id.
func (s *CatalogService) Get(ctx context.Context, id int64) (catalog.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, apperrors.NotFoundf("product %d not found", id)
}

// Invalidate drops the cached product list.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.fetchedAt = time.Time{}
}

func (s *CatalogService) cached() ([]catalog.Product, bool) {
	if s.ttl < 0 {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.products == nil || s.now().Sub(s.fetchedAt) >= s.ttl {
		return nil, false
	}
	return slices.Clone(s.products), true
}

func (s *CatalogService) store(products []catalog.Product) {
	if s.ttl < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.fetchedAt = s.now()
}
