package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adityabima03/YuhuKopi/internal/config"
	"github.com/adityabima03/YuhuKopi/internal/event"
	handler "github.com/adityabima03/YuhuKopi/internal/handler/http"
	"github.com/adityabima03/YuhuKopi/internal/repository"
	"github.com/adityabima03/YuhuKopi/internal/repository/memory"
	"github.com/adityabima03/YuhuKopi/internal/repository/postgres"
	redisrepo "github.com/adityabima03/YuhuKopi/internal/repository/redis"
	"github.com/adityabima03/YuhuKopi/internal/service"
	"github.com/adityabima03/YuhuKopi/migrations"
	"github.com/adityabima03/YuhuKopi/pkg/database"
	"github.com/adityabima03/YuhuKopi/pkg/health"
	pkgkafka "github.com/adityabima03/YuhuKopi/pkg/kafka"
	"github.com/adityabima03/YuhuKopi/pkg/tracing"
)

const serviceName = "coffee-server"

// App wires together all dependencies and runs the catalog/order backend.
type App struct {
	cfg            *config.Server
	logger         *slog.Logger
	httpServer     *http.Server
	producer       *pkgkafka.Producer
	closeStore     func()
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Server, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	if cfg.SlowQueryThreshold > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
	}

	orders, closeStore, err := openOrderStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		producer  *pkgkafka.Producer
		publisher service.OrderEventPublisher = event.NoopProducer{}
	)
	if cfg.EventsEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
			logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		}
		publisher = event.NewProducer(producer, logger)
	} else {
		logger.Info("order events disabled")
	}

	catalogService := service.NewCatalogService(memory.NewCatalogRepository())
	orderService := service.NewOrderService(orders, publisher, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register(cfg.OrderStore, orders.Ping)

	router := handler.NewRouter(catalogService, orderService, healthHandler, logger, handler.RouterOptions{
		CatalogMaxAge:  cfg.CatalogCacheMaxAge,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		PprofEnabled:   cfg.PprofEnabled,
		PprofCIDRs:     cfg.PprofAllowedIPs,
		OrderRateRPS:   cfg.OrderRateLimitRPS,
		OrderBurst:     cfg.OrderRateLimitBurst,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		httpServer:     httpServer,
		producer:       producer,
		closeStore:     closeStore,
		tracerShutdown: tracerShutdown,
	}, nil
}

// openOrderStore connects the driver named by ORDER_STORE and returns the
// repository with a func that releases its connections.
func openOrderStore(ctx context.Context, cfg *config.Server, logger *slog.Logger) (repository.OrderRepository, func(), error) {
	switch cfg.OrderStore {
	case config.OrderStoreRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr()))
		return redisrepo.NewOrderRepository(client), func() { _ = client.Close() }, nil

	default:
		pool, err := database.NewPostgresPool(ctx, &cfg.Postgres, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.Postgres.Host),
			slog.Int("port", cfg.Postgres.Port),
			slog.String("database", cfg.Postgres.DBName),
		)
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
			logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
		}
		if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations completed")
		return postgres.NewOrderRepository(pool), pool.Close, nil
	}
}

// Run starts the HTTP server, then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown stops components in order: HTTP server, tracer, Kafka producer,
// order store.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Flush spans only after in-flight requests are drained.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.closeStore != nil {
		a.closeStore()
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// pingKafkaWithRetry pings the producer up to 3 times with 1s/2s backoff
// and ±25% jitter.
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if lastErr = producer.Ping(ctx); lastErr == nil {
			return nil
		}
		if attempt < 2 {
			base := time.Duration(1<<uint(attempt)) * time.Second
			jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter
			wait := base + jitter
			logger.Warn("kafka producer ping failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("kafka ping: context canceled during retry: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("kafka producer ping failed after 3 attempts: %w", lastErr)
}
