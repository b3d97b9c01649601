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

	httptransport "github.com/spec-kit/car-rental/internal/api/http"
	"github.com/spec-kit/car-rental/internal/api/http/handlers"
	"github.com/spec-kit/car-rental/internal/auth"
	"github.com/spec-kit/car-rental/internal/cache"
	"github.com/spec-kit/car-rental/internal/config"
	"github.com/spec-kit/car-rental/internal/events"
	"github.com/spec-kit/car-rental/internal/messaging"
	"github.com/spec-kit/car-rental/internal/observability"
	"github.com/spec-kit/car-rental/internal/persistence"
	"github.com/spec-kit/car-rental/internal/repository"
	"github.com/spec-kit/car-rental/internal/service"
	"github.com/spec-kit/car-rental/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Tracing, cfg.App)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	carRepo := repository.NewCarRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	metrics := observability.NewMetrics(cfg.App.Name)
	metrics.ObservePool("postgres", pg.Stats)
	dispatcher := events.NewInMemoryDispatcher(logger)

	var sink service.EventSink
	var forwarder *worker.EventForwarder
	if cfg.Broker.URL != "" {
		publisher, err := messaging.NewRabbitPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			logger.Warn("rabbitmq unavailable; booking events will only be logged", zap.Error(err))
		} else {
			defer publisher.Close() //nolint:errcheck
			forwarder = worker.NewEventForwarder(publisher, 0, logger)
			go forwarder.Run(ctx)
			sink = forwarder
		}
	}
	service.NewNotificationService(dispatcher, sink, logger).RegisterHandlers()

	var carCache service.CarListCache
	if cfg.Cache.Enabled {
		carCache = cache.NewCarCache(redis.Handle(), cfg.Cache.KeyPrefix, cfg.Cache.CarListTTL)
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{UserRepo: userRepo})
	carService := service.NewCarService(service.CarDependencies{
		CarRepo: carRepo,
		Cache:   carCache,
		Logger:  logger,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo: bookingRepo,
		CarRepo:     carRepo,
		Dispatcher:  dispatcher,
		Recorder:    metrics,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Cars:           handlers.NewCarsHandler(carService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		AuthMiddleware: authMiddleware,
		RateLimiter:    httptransport.NewRateLimiter(cfg.RateLimit, redis.Handle(), logger),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if forwarder != nil {
		forwarder.Stop()
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
