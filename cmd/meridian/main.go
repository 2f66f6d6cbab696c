package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-lms/meridian-lms/internal/app"
	"github.com/meridian-lms/meridian-lms/internal/audit"
	"github.com/meridian-lms/meridian-lms/internal/auth"
	"github.com/meridian-lms/meridian-lms/internal/content"
	"github.com/meridian-lms/meridian-lms/internal/language"
	"github.com/meridian-lms/meridian-lms/internal/observability"
	"github.com/meridian-lms/meridian-lms/internal/platform/db"
	"github.com/meridian-lms/meridian-lms/internal/rbac"
	"github.com/meridian-lms/meridian-lms/internal/shared"
	"github.com/meridian-lms/meridian-lms/internal/translation"
	"github.com/meridian-lms/meridian-lms/internal/users"
	"github.com/meridian-lms/meridian-lms/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	langs, err := parseLanguages(cfg.Languages)
	if err != nil {
		logger.Error("parse languages", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)

	rbacRepo := rbac.NewRepository(pool)
	evaluator := rbac.NewEvaluator(rbacRepo)
	rbacMiddleware := rbac.Middleware{Evaluator: evaluator, Logger: logger}
	catalog := rbac.NewCatalog(rbac.BasePermissions(), langs)
	seeder := rbac.NewSeeder(rbacRepo, catalog, logger)

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	usersService := users.NewService(logger, users.NewRepository(pool), evaluator, jobsClient, auditLogger)
	usersHandler := users.NewHandler(logger, usersService)

	rbacHandler := rbac.NewHandler(logger, rbacRepo, evaluator, auditLogger)
	auditHandler := audit.NewHandler(logger, audit.NewService(audit.NewRepository(pool)))

	translations := translation.NewManager(translation.NewPGStore(pool))

	newContent := func(kind content.Kind) *content.Service {
		return content.NewService(kind, content.NewRepository(kind, pool), translations, auditLogger)
	}
	courses := newContent(content.Courses)
	books := newContent(content.Books)
	units := newContent(content.Units)
	lessons := newContent(content.Lessons)
	departments := newContent(content.Departments)
	groups := newContent(content.Groups)
	courses.AttachChild(units)
	units.AttachChild(lessons)

	contentHandlers := map[string]*content.Handler{
		"courses":     content.NewHandler(logger, courses, evaluator),
		"books":       content.NewHandler(logger, books, evaluator),
		"units":       content.NewHandler(logger, units, evaluator),
		"lessons":     content.NewHandler(logger, lessons, evaluator),
		"departments": content.NewHandler(logger, departments, evaluator),
		"groups":      content.NewHandler(logger, groups, evaluator),
	}

	metrics := observability.NewMetrics()
	readiness := app.NewReadiness()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		Readiness:       readiness,
		RBACMiddleware:  rbacMiddleware,
		AuthHandler:     authHandler,
		UsersHandler:    usersHandler,
		RBACHandler:     rbacHandler,
		AuditHandler:    auditHandler,
		ContentHandlers: contentHandlers,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := seeder.Seed(groupCtx); err != nil {
			return err
		}
		readiness.MarkReady()
		logger.Info("permission catalog seeded, accepting requests")
		return nil
	})

	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run", slog.Any("error", err))
		os.Exit(1)
	}
}

func parseLanguages(raw []string) ([]language.Code, error) {
	codes := make([]language.Code, 0, len(raw))
	for _, entry := range raw {
		code, err := language.Parse(entry)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}
