// Package main runs the journal engine as an HTTP service:
// - REST routes that write trades and profiles and trigger passes
// - The achievement read model and revocation
// - Per-user notification queues over REST and websocket
// - /health, /ready and /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"trade-journal/internal/api"
	"trade-journal/internal/cache"
	"trade-journal/internal/catalog"
	"trade-journal/internal/config"
	"trade-journal/internal/logger"
	"trade-journal/internal/notification"
	"trade-journal/internal/observability"
	"trade-journal/internal/orchestrator"
	"trade-journal/internal/storage"
	chstore "trade-journal/internal/storage/clickhouse"
	"trade-journal/internal/storage/memory"
	"trade-journal/internal/storage/migrations"
	pgstore "trade-journal/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	tradeStore       storage.TradeStore
	profileStore     storage.ProfileStore
	metricsStore     storage.MetricsStore
	achievementStore storage.AchievementStore
	historyStore     storage.MetricsHistoryStore // nil without ClickHouse

	checks map[string]api.Pinger
}

func main() {
	configPath := flag.String("config", envOr("JOURNAL_CONFIG", "config.yaml"), "Path to YAML config file")
	envOnly := flag.Bool("env-only", false, "Ignore the config file and read JOURNAL_* environment only")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envOnly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, cleanup, err := createStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("create stores: %w", err)
	}
	defer cleanup()

	projections, closeCache, err := createProjectionCache(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("create projection cache: %w", err)
	}
	defer closeCache()

	hub := notification.NewHub()
	engine := orchestrator.New(orchestrator.Options{
		TradeStore:       stores.tradeStore,
		ProfileStore:     stores.profileStore,
		MetricsStore:     stores.metricsStore,
		AchievementStore: stores.achievementStore,
		HistoryStore:     stores.historyStore,
		Catalog:          catalog.Default(),
		Notifier:         hub,
		Cache:            projections,
		Logger:           log,
		StreakWindow:     cfg.Engine.StreakWindow,
		PassTimeout:      cfg.Engine.PassTimeout,
		LockTimeout:      cfg.Engine.LockTimeout,
	})

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Engine:   engine,
		Trades:   stores.tradeStore,
		Profiles: stores.profileStore,
		Metrics:  stores.metricsStore,
		History:  stores.historyStore,
		Hub:      hub,
		Logger:   log,
		Checks:   stores.checks,
	})

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go trackUptime(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", cfg.Server.HTTPAddr),
			zap.String("storage", cfg.Storage.Backend),
			zap.Int("catalog_version", engine.Catalog().Version()),
			zap.Int("achievements", engine.Catalog().Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", zap.Error(err))
	}

	// Let queued passes finish so no trade write goes unevaluated.
	done := make(chan struct{})
	go func() {
		engine.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("background passes still running at shutdown")
	}
	return nil
}

// createStores creates all required stores.
func createStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*allStores, func(), error) {
	if cfg.Storage.Backend == config.BackendMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		stores := &allStores{
			tradeStore:       memory.NewTradeStore(),
			profileStore:     memory.NewProfileStore(),
			metricsStore:     memory.NewMetricsStore(),
			achievementStore: memory.NewAchievementStore(),
			historyStore:     memory.NewMetricsHistoryStore(),
			checks:           map[string]api.Pinger{},
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if cfg.Storage.RunMigrations {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
	}

	stores := &allStores{
		tradeStore:       pgstore.NewTradeStore(pool),
		profileStore:     pgstore.NewProfileStore(pool),
		metricsStore:     pgstore.NewMetricsStore(pool),
		achievementStore: pgstore.NewAchievementStore(pool),
		checks: map[string]api.Pinger{
			"postgres": func(ctx context.Context) error { return pool.Ping(ctx) },
		},
	}
	cleanup := func() { pool.Close() }

	// ClickHouse (analytics, optional)
	if cfg.ClickHouse.DSN == "" {
		log.Info("clickhouse disabled; metrics history is not recorded")
		return stores, cleanup, nil
	}

	if cfg.Storage.RunMigrations {
		if err := chstore.EnsureDatabase(ctx, cfg.ClickHouse.DSN); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("clickhouse database: %w", err)
		}
	}
	chConn, err := chstore.NewConn(ctx, cfg.ClickHouse.DSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if cfg.Storage.RunMigrations {
		if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
			chConn.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
	}

	stores.historyStore = chstore.NewMetricsHistoryStore(chConn)
	stores.checks["clickhouse"] = func(ctx context.Context) error { return chConn.Ping(ctx) }

	cleanup = func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// createProjectionCache uses Redis when configured so several instances
// share projections, and an in-process map otherwise.
func createProjectionCache(ctx context.Context, cfg config.Config, log *zap.Logger) (*cache.ProjectionCache, func(), error) {
	if cfg.Redis.Addr == "" {
		return cache.NewProjectionCache(cache.NewMemoryStore(), cfg.Cache.TTL), func() {}, nil
	}

	rs, err := cache.NewRedisStore(ctx, &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("projection cache backed by redis", zap.String("addr", cfg.Redis.Addr))
	return cache.NewProjectionCache(rs, cfg.Cache.TTL), func() { _ = rs.Close() }, nil
}

func trackUptime(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			observability.DefaultMetrics.UptimeSeconds.Inc()
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
