package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/api/handler"
	"github.com/Freeeeeet/consultation_scheduler/internal/api/router"
	"github.com/Freeeeeet/consultation_scheduler/internal/app"
	"github.com/Freeeeeet/consultation_scheduler/internal/auth"
	"github.com/Freeeeeet/consultation_scheduler/internal/config"
	"github.com/Freeeeeet/consultation_scheduler/internal/lock"
	"github.com/Freeeeeet/consultation_scheduler/internal/notify"
	"github.com/Freeeeeet/consultation_scheduler/internal/repository"
	"github.com/Freeeeeet/consultation_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting consultation scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("timezone", cfg.Location.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("Connected to database")

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		_ = migrator.Close()
		if err != nil {
			return err
		}
	}

	// Репозитории
	configRepo := repository.NewAvailabilityRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)

	locker, closeLocker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	notifiers, err := newNotifiers(cfg, logger)
	if err != nil {
		return err
	}
	bus := notify.NewBus(resourceRepo, logger, notifiers...)

	// Сервисы
	clock := service.NewSystemClock(cfg.Location)
	authorizer := service.NewResourceAuthorizer(resourceRepo)
	availabilityService := service.NewAvailabilityService(configRepo, bookingRepo, bus, clock, logger)
	bookingService := service.NewBookingService(availabilityService, bookingRepo, locker, authorizer, bus, clock, logger)
	lifecycleService := service.NewLifecycleService(bookingRepo, authorizer, bus, clock, logger)
	exportService := service.NewExportService(bookingService, cfg.Location, logger)

	scheduler, err := app.NewScheduler(resourceRepo, availabilityService, cfg.ReconcileCron, cfg.Location, logger)
	if err != nil {
		return err
	}

	h := handler.New(availabilityService, bookingService, lifecycleService, exportService, authorizer, logger)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.Setup(cfg.Environment, h, tokens, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error { return bus.Run(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })

	return g.Wait()
}

// newLocker выбирает Redis блокировку если задан REDIS_ADDR, иначе блокировку в памяти процесса
func newLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (lock.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-process slot lock")
		return lock.NewKeyedMutex(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	logger.Info("Using Redis slot lock", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.LockTTL))
	return lock.NewRedisLocker(client, cfg.LockTTL, logger), func() { _ = client.Close() }, nil
}

func newNotifiers(cfg *config.Config, logger *zap.Logger) ([]notify.Notifier, error) {
	var notifiers []notify.Notifier

	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, notify.NewTelegramNotifier(b))
	}

	if cfg.SMTPHost != "" {
		dialer := notify.NewSMTPDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		notifiers = append(notifiers, notify.NewEmailNotifier(dialer, cfg.SMTPFrom))
	}

	if len(notifiers) == 0 {
		logger.Warn("No notification channels configured, operator notifications disabled")
	}
	return notifiers, nil
}
