package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nash-core-poc/server/internal/agent/graph"
	"github.com/nash-core-poc/server/internal/agent/graph/advisors"
	"github.com/nash-core-poc/server/internal/agent/graph/conversations"
	"github.com/nash-core-poc/server/internal/agent/model"
	"github.com/nash-core-poc/server/internal/agent/repo"
	"github.com/nash-core-poc/server/internal/metrics"
	"github.com/nash-core-poc/server/internal/physics"
	logx "github.com/nash-core-poc/server/pkg/logger"
	"github.com/nash-core-poc/server/pkg/tracing"
)

// AdvisorFactory builds the advisory service from configuration.
type AdvisorFactory func(ctx context.Context, cfg model.AdvisorConfig) (advisors.Advisor, error)

// App is the wired process: catalog, estimator stack, sessions, metrics and tracing.
type App struct {
	Config    AppConfig
	Catalog   *physics.Catalog
	Cache     *physics.CachedEstimator
	Estimator physics.Estimator
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Sessions  *conversations.SessionManager
	Tracing   *tracing.Provider

	newAdvisor AdvisorFactory
	redis      *goredis.Client
}

// NewApp wires every dependency except the advisor, which Runner builds on demand.
func NewApp(ctx context.Context, cfg AppConfig, newAdvisor AdvisorFactory) (*App, error) {
	if newAdvisor == nil {
		newAdvisor = advisors.New
	}
	app := &App{Config: cfg, newAdvisor: newAdvisor}

	app.Catalog = physics.DefaultCatalog()
	if cfg.Estimator.MaterialsFile != "" {
		catalog, err := physics.LoadCatalogFile(cfg.Estimator.MaterialsFile, app.Catalog)
		if err != nil {
			return nil, err
		}
		app.Catalog = catalog
		logx.Info().Str("file", cfg.Estimator.MaterialsFile).Strs("materials", catalog.Names()).Msg("material catalog loaded")
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = metrics.NewMetrics(app.Registry)

	cache, err := physics.NewCachedEstimator(physics.Callaway, cfg.Estimator.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("estimator cache: %w", err)
	}
	app.Cache = cache
	app.Metrics.RegisterCache(app.Registry,
		func() float64 {
			hits, _ := cache.Stats()
			return float64(hits)
		},
		func() float64 { return float64(cache.Len()) },
	)
	app.Estimator = metrics.InstrumentEstimator(cache, app.Metrics)

	var sessionRepo model.SessionRepository
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		app.redis = rdb
		sessionRepo = repo.NewRedisSessionRepository(rdb, cfg.Session.TTL)
		logx.Info().Msg("Connected to Redis; sessions are persistent")
	} else {
		sessionRepo = repo.NewMemorySessionRepository(cfg.Session.MemoryMaxSessions, cfg.Session.TTL)
		logx.Debug().Msg("REDIS_URL not set; sessions kept in memory")
	}
	app.Sessions = conversations.NewSessionManager(sessionRepo, cfg.Agent)

	app.Tracing, err = tracing.New(ctx, cfg.Tracing)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	return app, nil
}

// Runner builds the advisor and the theorist graph.
func (a *App) Runner(ctx context.Context) (graph.Runner, error) {
	adv, err := a.newAdvisor(ctx, a.Config.Advisor)
	if err != nil {
		return nil, err
	}
	return graph.NewRunner(ctx, graph.Config{
		Advisor:   adv,
		Estimator: a.Estimator,
		Catalog:   a.Catalog,
		Agent:     a.Config.Agent,
		Sessions:  a.Sessions,
		Metrics:   a.Metrics,
		Tracer:    a.Tracing.Tracer("nash"),
	})
}

// Close releases Redis and flushes spans.
func (a *App) Close(ctx context.Context) {
	if err := a.Tracing.Shutdown(context.WithoutCancel(ctx)); err != nil {
		logx.Warn().Err(err).Msg("tracing shutdown failed")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logx.Warn().Err(err).Msg("redis close failed")
		}
	}
}
