package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SoundInkube/soundinkube-sub000/internal/config"
	"github.com/SoundInkube/soundinkube-sub000/internal/db"
	"github.com/SoundInkube/soundinkube-sub000/internal/events"
	"github.com/SoundInkube/soundinkube-sub000/internal/lock"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
	"github.com/SoundInkube/soundinkube-sub000/internal/repository"
	"github.com/SoundInkube/soundinkube-sub000/internal/service"
	"github.com/SoundInkube/soundinkube-sub000/internal/transport/grpcapi"
	"github.com/SoundInkube/soundinkube-sub000/internal/transport/httpapi"
)

func main() {
	// 1. Config from .env and the environment.
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Storage and migrations.
	resources, reservations, closeStore, err := openStore(&cfg.DB)
	if err != nil {
		fatal(logger, "open store", err)
	}
	defer closeStore()

	// 3. Per-resource lock: Redis when configured, in-process otherwise.
	locker, closeLocker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		fatal(logger, "init locker", err)
	}
	defer closeLocker()

	// 4. Lifecycle events.
	publisher, closePublisher, err := newPublisher(cfg.AMQP, logger)
	if err != nil {
		fatal(logger, "init publisher", err)
	}
	defer closePublisher()

	// 5. Services.
	opts := service.Options{
		StoreTimeout:    cfg.StoreTimeout,
		Locker:          locker,
		Publisher:       publisher,
		Logger:          logger,
		DefaultCurrency: cfg.DefaultCurrency,
	}
	reservationSvc := service.NewReservationService(resources, reservations, opts)
	registry := service.NewResourceRegistry(resources, opts)

	if cfg.CatalogPath != "" {
		cat, err := config.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			fatal(logger, "load catalog", err)
		}
		n, err := registry.Seed(ctx, cat)
		if err != nil {
			fatal(logger, "seed catalog", err)
		}
		logger.Info("catalog seeded", "path", cfg.CatalogPath, "created", n, "entries", len(cat.Resources))
	}

	// 6. gRPC server.
	grpcServer, health := grpcapi.NewGRPCServer(grpcapi.NewServer(reservationSvc, registry, nil), logger)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		fatal(logger, "listen "+cfg.GRPCAddr, err)
	}
	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve", "err", err)
			stop()
		}
	}()

	// 7. HTTP server.
	e := httpapi.NewRouter(httpapi.NewHandler(reservationSvc, registry, nil), logger)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "err", err)
			stop()
		}
	}()

	// 8. Graceful shutdown.
	<-ctx.Done()
	logger.Info("shutting down")
	health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}
	grpcServer.GracefulStop()
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

func openStore(cfg *config.DBConfig) (repository.ResourceRepository, repository.ReservationStore, func(), error) {
	if cfg.Driver == config.DriverMemory {
		m := repository.NewMemoryStore()
		return m.Resources(), m.Reservations(), func() {}, nil
	}

	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		return nil, nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() { _ = sqlDB.Close() }
	return repository.NewGormResourceRepository(gormDB), repository.NewGormReservationStore(gormDB), closeFn, nil
}

func newLocker(ctx context.Context, cfg *config.App, logger *slog.Logger) (lock.Locker, func(), error) {
	if cfg.Redis.Addr == "" {
		return lock.NewKeyedMutex(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	logger.Info("using redis lock", "addr", cfg.Redis.Addr)
	l := lock.NewRedisLocker(rdb, lock.RedisOptions{TTL: cfg.Redis.LockTTL}, logger)
	return l, func() { _ = rdb.Close() }, nil
}

func newPublisher(cfg config.AMQPConfig, logger *slog.Logger) (events.Publisher, func(), error) {
	if cfg.URL == "" {
		return events.Nop{}, func() {}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing events", "exchange", cfg.Exchange)
	return p, func() { _ = p.Close() }, nil
}
