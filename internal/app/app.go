// Package app assembles the catalog, program registry and services shared by
// the HTTP server and the auditctl CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"degreeaudit/internal/audit/adapters"
	auditMetrics "degreeaudit/internal/audit/metrics"
	auditService "degreeaudit/internal/audit/service"
	"degreeaudit/internal/catalog"
	catalogMetrics "degreeaudit/internal/catalog/metrics"
	"degreeaudit/internal/catalog/store"
	"degreeaudit/internal/gened"
	"degreeaudit/internal/platform/config"
	"degreeaudit/internal/platform/redis"
	"degreeaudit/internal/ranking"
	rankingMetrics "degreeaudit/internal/ranking/metrics"
	"degreeaudit/internal/ratelimit"
)

// App holds the wired services.
type App struct {
	// Store is the raw catalog backend, used by imports.
	Store store.Store
	// Catalog is Store behind the read-through cache.
	Catalog        store.Store
	Registry       *catalog.Registry
	Equivalencies  *catalog.EquivalencyTable
	Audits         *auditService.Service
	Ranking        *ranking.Service
	GenEd          *gened.Service
	CatalogMetrics *catalogMetrics.Metrics
	Redis          *redis.Client
	// RateLimits shares request windows across replicas when Redis is configured.
	RateLimits ratelimit.Store

	closers []func() error
}

type options struct {
	metrics bool
}

type Option func(*options)

// WithMetrics registers Prometheus collectors for every service.
func WithMetrics() Option {
	return func(o *options) { o.metrics = true }
}

// Open connects the catalog backend and loads program data.
func Open(ctx context.Context, cfg config.Server, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{}
	backend, closer, err := openStore(ctx, cfg.Catalog)
	if err != nil {
		return nil, err
	}
	a.Store = backend
	a.addCloser(closer)

	var (
		am *auditMetrics.Metrics
		rm *rankingMetrics.Metrics
	)
	if o.metrics {
		a.CatalogMetrics = catalogMetrics.New()
		am = auditMetrics.New()
		rm = rankingMetrics.New()
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	var cache store.Cache = store.NewMemoryCache()
	a.RateLimits = ratelimit.NewMemoryStore()
	if rc != nil {
		a.Redis = rc
		a.addCloser(rc.Close)
		cache = store.NewRedisCache(rc.Client)
		a.RateLimits = ratelimit.NewRedisStore(rc.Client)
		logger.InfoContext(ctx, "catalog cache and rate limits backed by redis")
	}
	a.Catalog = store.NewCachedStore(backend, cache, cfg.Catalog.CacheTTL, a.CatalogMetrics)

	a.Registry, err = catalog.LoadRegistry(cfg.Catalog.ProgramsDir)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("load programs: %w", err)
	}
	a.Equivalencies, err = catalog.LoadEquivalencyTable(cfg.Catalog.EquivalenciesFile)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("load equivalencies: %w", err)
	}

	programs := adapters.NewProgramAdapter(a.Registry)
	catalogPort := adapters.NewCatalogAdapter(a.Catalog)
	a.Audits = auditService.New(programs, catalogPort, adapters.NewEquivalencyAdapter(a.Equivalencies),
		auditService.WithLogger(logger),
		auditService.WithMetrics(am),
	)
	a.Ranking = ranking.New(a.Audits, programs, catalogPort, cfg.Ranking,
		ranking.WithLogger(logger),
		ranking.WithMetrics(rm),
	)
	a.GenEd = gened.New(a.Catalog, programs, cfg.Ranking, gened.WithLogger(logger))

	logger.InfoContext(ctx, "catalog ready",
		"driver", cfg.Catalog.Driver,
		"programs", a.Registry.Len(),
		"equivalency_groups", a.Equivalencies.Len(),
	)
	return a, nil
}

// Close releases backend connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) addCloser(fn func() error) {
	if fn != nil {
		a.closers = append(a.closers, fn)
	}
}

func openStore(ctx context.Context, cfg config.CatalogConfig) (store.Store, func() error, error) {
	switch cfg.Driver {
	case "sqlite":
		s, err := store.OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "postgres":
		s, err := store.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "memory":
		return store.NewInMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
	}
}
