package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/zenithretail/storefront/pkg/database"
	"github.com/zenithretail/storefront/pkg/health"
	"github.com/zenithretail/storefront/pkg/httpclient"
	pkgkafka "github.com/zenithretail/storefront/pkg/kafka"
	"github.com/zenithretail/storefront/pkg/tracing"

	"github.com/zenithretail/storefront/internal/chat"
	"github.com/zenithretail/storefront/internal/config"
	"github.com/zenithretail/storefront/internal/event"
	"github.com/zenithretail/storefront/internal/gateway"
	"github.com/zenithretail/storefront/internal/gateway/mock"
	"github.com/zenithretail/storefront/internal/gateway/paystack"
	handler "github.com/zenithretail/storefront/internal/handler/http"
	"github.com/zenithretail/storefront/internal/pricing"
	postgresrepo "github.com/zenithretail/storefront/internal/repository/postgres"
	redisrepo "github.com/zenithretail/storefront/internal/repository/redis"
	"github.com/zenithretail/storefront/internal/service"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "storefront",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL pool and apply migrations.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, postgresrepo.Migrations, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	prometheus.MustRegister(database.NewPoolStatsCollector(pool, "storefront"))

	// Initialize Redis client.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Payment gateway.
	var gw gateway.Gateway
	if cfg.PaymentMock {
		gw = mock.NewGateway(cfg.CheckoutCallbackURL)
		logger.Warn("using mock payment gateway; payments are not real")
	} else {
		client := httpclient.New(httpclient.Config{
			Timeout:         cfg.GatewayTimeout(),
			MaxRetries:      2,
			RetryWaitMin:    500 * time.Millisecond,
			RetryWaitMax:    3 * time.Second,
			MaxConnsPerHost: 20,
		})
		// A circuit breaker keeps checkout from piling up requests against
		// Paystack when it is already failing.
		breaker := httpclient.NewCircuitBreakerClient(
			client,
			httpclient.DefaultCircuitBreakerConfig("paystack"),
			logger,
		)
		gw = paystack.New(cfg.PaystackBaseURL, cfg.PaystackSecretKey, breaker)
	}
	logger.Info("payment gateway configured", slog.String("gateway", gw.Name()))

	// Pricing rules come from configuration; Load has already validated them.
	rules, err := pricing.ParseRules(cfg.PromoRules)
	if err != nil {
		return nil, fmt.Errorf("parse promo rules: %w", err)
	}
	calculator := pricing.NewCalculator(rules, cfg.FreeShippingThreshold, cfg.FlatShippingFee, cfg.Currency)

	// Build the dependency graph.
	cartRepo := redisrepo.NewCartRepository(rdb, cfg.CartTTL())
	sessionRepo := redisrepo.NewCheckoutRepository(rdb, cfg.SessionTTL())
	productRepo := postgresrepo.NewProductRepository(pool)
	orderRepo := postgresrepo.NewOrderRepository(pool)

	eventProducer := event.NewProducer(producer, logger)

	cartService := service.NewCartService(cartRepo, eventProducer, logger, cfg.Currency, cfg.CartTTL())
	catalogService := service.NewCatalogService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	checkoutService := service.NewCheckoutService(service.CheckoutConfig{
		Sessions:       sessionRepo,
		Orders:         orderRepo,
		Carts:          cartService,
		Gateway:        gw,
		Calculator:     calculator,
		Producer:       eventProducer,
		Logger:         logger,
		GatewayTimeout: cfg.GatewayTimeout(),
		SessionTTL:     cfg.SessionTTL(),
		CallbackURL:    cfg.CheckoutCallbackURL,
		ReturnURL:      cfg.CheckoutReturnURL,
		Currency:       cfg.Currency,
	})

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Carts:     cartService,
		Catalog:   catalogService,
		Checkout:  checkoutService,
		Orders:    orderService,
		Responder: chat.NewResponder(chat.DefaultRules(), chat.DefaultFallback),
		Health:    healthHandler,
		Logger:    logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
