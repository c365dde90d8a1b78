package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kdbplan/kdbplan/internal/catalog"
	"github.com/kdbplan/kdbplan/internal/classroom"
	"github.com/kdbplan/kdbplan/internal/config"
	"github.com/kdbplan/kdbplan/internal/domain"
	"github.com/kdbplan/kdbplan/internal/httpserver"
	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/logger"
	"github.com/kdbplan/kdbplan/internal/planner"
	"github.com/kdbplan/kdbplan/internal/redis"
	"github.com/kdbplan/kdbplan/internal/scheduler"
	"github.com/kdbplan/kdbplan/internal/store"
	redisstore "github.com/kdbplan/kdbplan/internal/store/redis"
	"github.com/kdbplan/kdbplan/internal/utils"
	"github.com/kdbplan/kdbplan/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	backend       store.Backend
	redisClient   *goredis.Client
	redisBackend  *redisstore.Backend
	catalog       *catalog.Index
	reloader      *scheduler.CatalogReloader
	reloadTrigger chan struct{}
}

// New loads the configuration and opens the bookmark storage.
// With KDB_STORAGE=redis it fails when Redis cannot be reached in time.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a := &App{
		cfg:           cfg,
		logger:        loggerClient,
		catalog:       catalog.NewIndex(domain.AcademicYear(time.Now())),
		reloadTrigger: make(chan struct{}, 1),
	}

	if err := a.openStorage(ctx); err != nil {
		return nil, err
	}

	a.reloader = scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		a.catalog,
		loggerClient,
		cfg.CatalogReloadInterval,
		a.reloadTrigger,
	)

	return a, nil
}

func (a *App) openStorage(ctx context.Context) error {
	switch a.cfg.Storage {
	case config.StorageRedis:
		a.logger.Infof("Connecting to Redis at %s", a.cfg.RedisAddr)
		client, err := redis.New(ctx, redis.OptionsFromConfig(a.cfg), a.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redisClient = client
		a.redisBackend = redisstore.NewBackend(client)
		a.backend = a.redisBackend

	case config.StorageMemory:
		a.logger.Warn("memory storage selected, bookmarks are lost on restart")
		a.backend = store.NewMemoryBackend()

	default:
		fb, err := store.NewFileBackend(a.cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open data directory: %w", err)
		}
		a.logger.Info("file storage ready", logger.String("dir", fb.Dir()))
		a.backend = fb
	}
	return nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.closeRedis()

	// The catalog must be loaded before the bookmarks: legacy documents
	// are migrated to the catalog's current year.
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	defer a.reloader.Stop()
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.CatalogReloadInterval))

	codec := store.NewCodec(a.backend, a.logger, func() int {
		return a.catalog.Snapshot().CurrentYear()
	})
	engine := planner.New(ctx, a.catalog, codec, a.logger)
	classrooms := classroom.NewService(ctx, a.backend, a.logger)

	auditor := scheduler.NewStaleAuditor(engine, a.logger, a.cfg.AuditInterval)
	if err := auditor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start stale bookmark auditor: %w", err)
	}
	defer auditor.Stop()

	d := deps.Deps{
		Logger:        a.logger,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		Engine:        engine,
		Catalog:       a.catalog,
		Classrooms:    classrooms,
		Storage:       a.cfg.Storage,
		AllowedHosts:  a.cfg.AllowedHosts,
		AllowedCIDRS:  a.cfg.AllowedCIDRS,
		TrustProxy:    a.cfg.TrustProxy,
		ExportBaseURL: a.cfg.ExportBaseURL,
		ReloadTrigger: a.reloadTrigger,
		ImportBurst:   a.cfg.ImportBurst,
		ImportPerMin:  a.cfg.ImportPerMin,
	}
	if a.redisBackend != nil {
		d.Redis = a.redisBackend
	}

	server := httpserver.New(a.cfg, a.logger, d)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ kdbplan stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

func (a *App) closeRedis() {
	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, "redis", a.logger)
	}
}
