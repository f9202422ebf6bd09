// Package main re-evaluates stored users against the current catalog.
// Run it after a catalog change: new entries unlock for users who already
// qualify, and levels are brought in line with the stored points.
// No notifications are emitted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"trade-journal/internal/catalog"
	"trade-journal/internal/config"
	"trade-journal/internal/domain"
	"trade-journal/internal/logger"
	"trade-journal/internal/orchestrator"
	"trade-journal/internal/storage"
	chstore "trade-journal/internal/storage/clickhouse"
	"trade-journal/internal/storage/migrations"
	pgstore "trade-journal/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	envOnly := flag.Bool("env-only", false, "Ignore the config file and read JOURNAL_* environment only")
	userID := flag.String("user", "", "Recompute a single user instead of everyone")
	concurrency := flag.Int("concurrency", 0, "Users processed in parallel (0 uses engine.recompute_concurrency)")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envOnly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.Backend != config.BackendPostgres {
		fmt.Fprintln(os.Stderr, "recompute needs storage.backend=postgres; in-memory state does not outlive the server")
		os.Exit(2)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		log.Fatal("connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Storage.RunMigrations {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			log.Fatal("postgres migrations", zap.Error(err))
		}
	}

	var history storage.MetricsHistoryStore
	if cfg.ClickHouse.DSN != "" {
		chConn, err := chstore.NewConn(ctx, cfg.ClickHouse.DSN)
		if err != nil {
			log.Fatal("connect to clickhouse", zap.Error(err))
		}
		defer chConn.Close()
		history = chstore.NewMetricsHistoryStore(chConn)
	}

	engine := orchestrator.New(orchestrator.Options{
		TradeStore:       pgstore.NewTradeStore(pool),
		ProfileStore:     pgstore.NewProfileStore(pool),
		MetricsStore:     pgstore.NewMetricsStore(pool),
		AchievementStore: pgstore.NewAchievementStore(pool),
		HistoryStore:     history,
		Catalog:          catalog.Default(),
		Logger:           log,
		StreakWindow:     cfg.Engine.StreakWindow,
		PassTimeout:      cfg.Engine.PassTimeout,
		LockTimeout:      cfg.Engine.LockTimeout,
	})

	start := time.Now()

	if *userID != "" {
		passCtx, cancel := context.WithTimeout(ctx, cfg.Engine.PassTimeout)
		defer cancel()
		res, err := engine.Process(passCtx, *userID, domain.TriggerRecompute)
		if err != nil {
			log.Fatal("recompute failed", zap.String("user_id", *userID), zap.Error(err))
		}
		log.Info("recompute completed",
			zap.String("user_id", *userID),
			zap.Int("unlocked", len(res.Unlocked)),
			zap.Int("total_points", res.State.TotalPoints),
			zap.Int("level", res.Level),
			zap.Duration("took", time.Since(start)))
		return
	}

	n := *concurrency
	if n <= 0 {
		n = cfg.Engine.RecomputeConcurrency
	}
	result, err := engine.RecomputeAll(ctx, n)
	if err != nil {
		log.Fatal("recompute aborted", zap.Error(err))
	}

	log.Info("recompute completed",
		zap.Int("catalog_version", engine.Catalog().Version()),
		zap.Int("users", result.Users),
		zap.Int("unlocked", result.Unlocked),
		zap.Int("level_ups", result.LevelUps),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("took", time.Since(start)))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			log.Error("user failed", zap.String("detail", e))
		}
		os.Exit(1)
	}
}
