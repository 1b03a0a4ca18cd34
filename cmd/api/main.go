package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/email"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/i18n"
	"github.com/spec-kit/support-desk/internal/lifecycle"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
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

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if cfg.Postgres.RunMigrations && pool != nil {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to init redis", zap.Error(err))
	}
	defer redis.Close()

	// Events go through the Redis stream when it is reachable, otherwise they are
	// delivered in-process.
	var (
		dispatcher events.Dispatcher
		consumer   worker.StreamConsumer
		redisCheck handlers.Pinger
		inMemory   *events.InMemoryDispatcher
	)
	if redis.Reachable() {
		stream := events.NewRedisStreamDispatcher(redis.Client, events.StreamConfig{
			Stream:   cfg.Events.Stream,
			Group:    cfg.Events.Group,
			Consumer: cfg.Events.Consumer,
			MaxLen:   cfg.Events.StreamMaxLen,
			Block:    cfg.Events.Block(),
		}, logger)
		dispatcher, consumer, redisCheck = stream, stream, redis
	} else {
		logger.Warn("redis unavailable; delivering ticket events in-process")
		inMemory = events.NewInMemoryDispatcher(logger)
		dispatcher = inMemory
	}

	sender := newSender(cfg.Notification, logger)
	resolver := i18n.NewResolver(cfg.I18n.DefaultLanguage)
	renderer, err := email.NewRenderer(resolver)
	if err != nil {
		logger.Fatal("failed to load email templates", zap.Error(err))
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(pool),
		Dispatcher: dispatcher,
		Engine:     lifecycle.NewEngine(lifecycle.ResolvedAtPolicy(cfg.Tickets.ResolvedAtPolicy), cfg.Admin.DisplayName),
		Languages:  resolver,
		Logger:     logger,
		Metrics:    metrics,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Renderer:   renderer,
		Sender:     sender,
		Logger:     logger,
		Metrics:    metrics,
		Timeout:    cfg.Notification.Timeout(),
	})

	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := worker.StartNotificationWorker(workerCtx, notificationService, consumer, logger)

	gate := auth.NewAdminGate(cfg.Admin, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var pgCheck handlers.Pinger
	if pool != nil {
		pgCheck = pg
	}
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pgCheck, redisCheck),
		Tickets:   handlers.NewTicketsHandler(ticketService, gate),
		AdminGate: gate.Handle,
		Metrics:   metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	stopWorker()
	<-workerDone
	if inMemory != nil {
		inMemory.Wait()
	}
}

func newSender(cfg config.NotificationConfig, logger *zap.Logger) email.Sender {
	if cfg.BrevoAPIKey == "" {
		logger.Warn("BREVO_API_KEY not set; emails will only be logged")
		return email.NewLogSender(logger)
	}
	sender, err := email.NewBrevoSender(email.BrevoConfig{
		BaseURL:   cfg.BrevoAPIURL,
		APIKey:    cfg.BrevoAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
		Timeout:   cfg.Timeout(),
	})
	if err != nil {
		logger.Warn("brevo sender disabled; emails will only be logged", zap.Error(err))
		return email.NewLogSender(logger)
	}
	return sender
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
