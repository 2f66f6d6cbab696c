package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/meridian-lms/meridian-lms/internal/app"
	jobmetrics "github.com/meridian-lms/meridian-lms/internal/jobs"
	"github.com/meridian-lms/meridian-lms/internal/language"
	"github.com/meridian-lms/meridian-lms/internal/platform/db"
	"github.com/meridian-lms/meridian-lms/internal/rbac"
	"github.com/meridian-lms/meridian-lms/internal/users"
	"github.com/meridian-lms/meridian-lms/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	langs := make([]language.Code, 0, len(cfg.Languages))
	for _, entry := range cfg.Languages {
		code, err := language.Parse(entry)
		if err != nil {
			logger.Error("parse languages", slog.Any("error", err))
			os.Exit(1)
		}
		langs = append(langs, code)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	rbacRepo := rbac.NewRepository(pool)
	catalog := rbac.NewCatalog(rbac.BasePermissions(), langs)
	seeder := rbac.NewSeeder(rbacRepo, catalog, logger)

	usersService := users.NewService(logger, users.NewRepository(pool), rbac.NewEvaluator(rbacRepo), nil, nil)

	metrics := jobmetrics.NewMetrics(nil)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogReconcile, Handler: jobs.NewCatalogReconcileHandler(seeder, metrics, logger)},
			{Type: jobs.TaskOrphanScan, Handler: jobs.NewOrphanScanHandler(usersService, metrics, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.CatalogReconcileCron, Task: jobs.NewCatalogReconcileTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.OrphanScanCron, Task: jobs.NewOrphanScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
