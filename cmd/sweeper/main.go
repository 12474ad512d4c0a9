package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"doccontrol/internal/config"
	"doccontrol/internal/domain/services"
	"doccontrol/internal/notify"
	"doccontrol/internal/repository/postgres"
	"doccontrol/internal/service/expiry"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("sweeper starting",
		"environment", cfg.Environment,
		"interval", cfg.SweepInterval,
		"table_prefix", cfg.TablePrefix,
	)

	policy, err := config.LoadReminderPolicy(cfg.ReminderPolicyPath)
	if err != nil {
		log.Fatalf("Failed to load reminder policy: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	eventRepo := postgres.NewEventRepository(repoConfig)

	sink := notify.MultiSink{
		notify.NewLogSink(logger),
		notify.NewRecordingSink(eventRepo, logger),
	}

	sweeper := expiry.NewSweeper(
		docRepo,
		sink,
		services.RealClock{},
		cfg.SweepInterval,
		policy,
		logger,
	)

	sweeper.Run(ctx)
}
