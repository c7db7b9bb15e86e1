package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/db"
	httpapi "github.com/yungbote/lumina-backend/internal/http"
	"github.com/yungbote/lumina-backend/internal/jobs/scheduler"
	"github.com/yungbote/lumina-backend/internal/jobs/worker"
	"github.com/yungbote/lumina-backend/internal/observability"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Repos    Repos
	Clients  Clients
	Services Services

	Server    *httpapi.Server
	Worker    *worker.Worker
	Scheduler *scheduler.Scheduler

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
}

// NewBase loads config, the logger and the database. It is enough for the
// migrate command.
func NewBase() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := db.NewPostgresService(cfg.Postgres(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	return &App{Log: log, DB: pg.DB(), Cfg: cfg, pg: pg}, nil
}

// New wires the whole process: clients, services, HTTP, worker and cron.
func New(ctx context.Context) (*App, error) {
	a, err := NewBase()
	if err != nil {
		return nil, err
	}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	log := a.Log
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: a.Cfg.ServiceName,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})
	a.Metrics = observability.Init(log)

	a.Repos = wireRepos(a.DB, log)

	clients, err := wireClients(ctx, log, a.Cfg)
	if err != nil {
		return err
	}
	a.Clients = clients

	svcs, err := wireServices(a.DB, log, a.Cfg, a.Repos, a.Clients, a.Metrics)
	if err != nil {
		return err
	}
	a.Services = svcs

	a.Server = httpapi.NewServer(wireRouterConfig(a.DB, log, a.Cfg, a.Services, a.Clients, a.Metrics))

	registry, err := wireJobRegistry(log, a.Repos, a.Services, a.Clients)
	if err != nil {
		return err
	}
	a.Worker = worker.NewWorker(a.DB, log, a.Repos.JobRun, registry, a.Metrics, worker.ConfigFromEnv())

	sched, err := scheduler.New(log, scheduler.MaintenanceTasks(a.Services.Auth, a.Repos.JobRun, a.Cfg.JobRetention)...)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	a.Scheduler = sched
	return nil
}

func (a *App) Migrate() error {
	if a == nil || a.DB == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Running migrations...")
	return db.AutoMigrateAll(a.DB)
}

// Run serves HTTP, drains the job queue and fires cron tasks until ctx is
// cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartPostgresCollector(gctx, a.Log, a.DB)
	a.Metrics.StartJobQueueCollector(gctx, a.Log, a.DB)
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(gctx, a.Log, a.Clients.Redis)
	}

	g.Go(func() error {
		return a.Server.Run(gctx, a.Cfg.Addr(), a.Cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		return a.Worker.Run(gctx)
	})
	g.Go(func() error {
		return a.Scheduler.Run(gctx)
	})

	err := g.Wait()
	a.Log.Info("Shutdown complete")
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
