package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rl1809/storefront/internal/adapter/events"
	"github.com/rl1809/storefront/internal/adapter/handler"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

func main() {
	cfg, err := config.Load(func(next *config.Config) {
		zerolog.SetGlobalLevel(next.Level())
	})
	if err != nil {
		stderr := zerolog.New(os.Stderr)
		stderr.Fatal().Err(err).Msg("load configuration")
	}

	zerolog.SetGlobalLevel(cfg.Level())
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open mysql")
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping mysql")
	}
	logger.Info().Msg("connected to mysql")

	if err := storage.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}
	logger.Info().Msg("schema up to date")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	logger.Info().Msg("connected to redis")

	// Adapters
	store := storage.NewMySQLAdapter(db)
	cache := storage.NewRedisAdapter(rdb, cfg.ReportCacheTTL)

	var publisher port.EventPublisher = events.NoopPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		logger.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("kafka publisher enabled")
	}

	// Services
	userService := service.NewUserService(store)
	catalogService := service.NewCatalogService(store, cache)
	orderService := service.NewOrderService(store, store, cache, cfg.QueueSize)

	// Event publisher workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			publishLoop(id, orderService.Events(), publisher, logger)
		}(i)
	}
	logger.Info().Int("workers", cfg.WorkerCount).Msg("started event workers")

	// gRPC health listener
	grpcHealth := handler.NewGRPCHealth()
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("listen grpc")
	}
	go func() {
		logger.Info().Str("addr", cfg.GRPCAddr).Msg("grpc health listening")
		if err := grpcHealth.Serve(lis); err != nil {
			logger.Error().Err(err).Msg("grpc server")
		}
	}()

	// HTTP server
	router := handler.NewRouter(
		handler.NewUserHandler(userService, logger),
		handler.NewCatalogHandler(catalogService, logger),
		handler.NewOrderHandler(orderService, logger),
		logger,
	)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	logger.Info().Msg("http server stopped")

	grpcHealth.Shutdown()
	logger.Info().Msg("grpc server stopped")

	// Close the event queue and wait for the workers to drain it.
	orderService.Close()
	wg.Wait()
	logger.Info().Msg("event workers stopped")

	if err := publisher.Close(); err != nil {
		logger.Error().Err(err).Msg("close publisher")
	}
	rdb.Close()
	db.Close()
	logger.Info().Msg("connections closed")
}

func publishLoop(id int, queue <-chan domain.OrderEvent, publisher port.EventPublisher, logger zerolog.Logger) {
	for event := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := publisher.Publish(ctx, event); err != nil {
			logger.Error().
				Err(err).
				Int("worker", id).
				Int64("order_id", event.OrderID).
				Str("type", string(event.Type)).
				Msg("publish order event")
		} else {
			logger.Debug().
				Int("worker", id).
				Int64("order_id", event.OrderID).
				Str("type", string(event.Type)).
				Msg("published order event")
		}

		cancel()
	}
}
