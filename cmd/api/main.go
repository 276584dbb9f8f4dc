package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/lettersmith/newsletter-service/internal/api/http"
	"github.com/lettersmith/newsletter-service/internal/api/http/handlers"
	"github.com/lettersmith/newsletter-service/internal/auth"
	"github.com/lettersmith/newsletter-service/internal/config"
	"github.com/lettersmith/newsletter-service/internal/events"
	"github.com/lettersmith/newsletter-service/internal/mailer"
	"github.com/lettersmith/newsletter-service/internal/observability"
	"github.com/lettersmith/newsletter-service/internal/persistence"
	"github.com/lettersmith/newsletter-service/internal/repository"
	"github.com/lettersmith/newsletter-service/internal/service"
	"github.com/lettersmith/newsletter-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var subsRepo repository.SubscriptionRepository
	var opsRepo repository.OperatorRepository
	if pool := pg.PoolHandle(); pool != nil {
		subsRepo = repository.NewSubscriptionRepository(pool)
		opsRepo = repository.NewOperatorRepository(pool)
	} else {
		logger.Warn("running with in-memory stores; data will not survive a restart")
		memSubs := repository.NewMemorySubscriptionRepository()
		memOps := repository.NewMemoryOperatorRepository()
		if cfg.Auth.OperatorUsername != "" {
			memOps.Seed(cfg.Auth.OperatorUsername, auth.PasswordDigest(cfg.Auth.OperatorPassword))
		}
		subsRepo, opsRepo = memSubs, memOps
	}

	dispatcher := events.NewInMemoryDispatcher()
	mailClient := mailer.NewClient(cfg.Email.BaseURL, cfg.Email.Sender, cfg.Email.ServerToken, cfg.Email.Timeout())
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes)

	operatorService := service.NewOperatorService(opsRepo, tokenManager)
	subscriptionService := service.NewSubscriptionService(cfg.App.BaseURL, service.SubscriptionDependencies{
		Subscriptions: subsRepo,
		Mailer:        mailClient,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	newsletterService := service.NewNewsletterService(service.NewsletterDependencies{
		Subscriptions: subsRepo,
		Gate:          operatorService,
		Mailer:        mailClient,
		Idempotency:   redis,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(ctx, notificationService, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Subscriptions: handlers.NewSubscriptionsHandler(subscriptionService),
		Newsletters:   handlers.NewNewslettersHandler(newsletterService),
		Sessions:      handlers.NewSessionsHandler(operatorService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
