package cecidarium

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cecidology/cecidarium/internal/db"
	dbRedis "github.com/cecidology/cecidarium/internal/db/redis"
	"github.com/cecidology/cecidarium/internal/domain/facet"
	domgall "github.com/cecidology/cecidarium/internal/domain/gall"
	"github.com/cecidology/cecidarium/internal/domain/search/selector"
	gallrepo "github.com/cecidology/cecidarium/internal/repository/gall"
	cataloguc "github.com/cecidology/cecidarium/internal/usecase/catalog"
	healthuc "github.com/cecidology/cecidarium/internal/usecase/health"
	sessionuc "github.com/cecidology/cecidarium/internal/usecase/session"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "cecid:"
)

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	Start(ctx context.Context, sel selector.Selector) (sessionuc.Snapshot, error)
	SubmitRoot(ctx context.Context, id string, sel selector.Selector) (sessionuc.Snapshot, error)
	EditFacet(ctx context.Context, id string, field facet.Name, values []string) (sessionuc.Snapshot, error)
	Get(ctx context.Context, id string) (sessionuc.Snapshot, error)
	End(ctx context.Context, id string) error
	Close()
}

type catalogUseCase interface {
	Upsert(ctx context.Context, id int64, name, genus string, hosts []string,
		attrs domgall.Attributes, description string) (domgall.Gall, bool, error)
	Get(ctx context.Context, id int64) (domgall.Gall, error)
	Delete(ctx context.Context, id int64) error
	Facets(ctx context.Context) ([]cataloguc.FacetOptions, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the cecidarium SDK entry point.
type Client struct {
	store      db.Store
	searchSvc  searchUseCase
	catalogSvc catalogUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a cecidarium Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:  defaultKeyPrefix,
		sessionTTL: sessionuc.DefaultTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("cecidarium: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("cecidarium: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("cecidarium: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	repo := gallrepo.New(store, cfg.keyPrefix)

	return &Client{
		store:      store,
		searchSvc:  sessionuc.New(repo, zap.NewNop()).WithTTL(cfg.sessionTTL),
		catalogSvc: cataloguc.New(repo),
		healthSvc:  healthuc.New(store),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.searchSvc != nil {
		c.searchSvc.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Catalog returns the gall catalog service.
func (c *Client) Catalog() *CatalogService {
	return &CatalogService{svc: c.catalogSvc, obs: c.obs}
}

// Search returns the faceted search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
