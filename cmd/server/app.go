package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/groupledger/internal/adapter/http"
	"github.com/iho/groupledger/internal/adapter/http/handler"
	"github.com/iho/groupledger/internal/adapter/http/middleware"
	"github.com/iho/groupledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/groupledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/groupledger/internal/adapter/repository/redis"
	"github.com/iho/groupledger/internal/infrastructure/auth"
	"github.com/iho/groupledger/internal/infrastructure/config"
	"github.com/iho/groupledger/internal/infrastructure/eventpublisher"
	"github.com/iho/groupledger/internal/infrastructure/metrics"
	"github.com/iho/groupledger/internal/infrastructure/postgres"
	"github.com/iho/groupledger/internal/infrastructure/redis"
	"github.com/iho/groupledger/internal/usecase"
)

// storage is the set of repositories behind one backend.
type storage struct {
	txManager    usecase.TransactionManager
	accounts     usecase.AccountRepository
	transfers    usecase.TransferRepository
	outbox       usecase.OutboxRepository
	audit        usecase.AuditRepository
	ledger       usecase.LedgerRepository
	retrier      usecase.Retrier
	healthChecks map[string]handler.Check
	close        func()
}

// app is the wired service.
type app struct {
	handler     http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		store := memory.NewStore()
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		return &storage{
			txManager:    memory.NewTxManager(store),
			accounts:     memory.NewAccountRepository(store),
			transfers:    memory.NewTransferRepository(store),
			outbox:       memory.NewOutboxRepository(store),
			audit:        memory.NewAuditRepository(store),
			ledger:       memory.NewLedgerRepository(store),
			healthChecks: map[string]handler.Check{},
			close:        func() {},
		}, nil

	case config.StoragePostgres:
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, logger).Up(); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		logger.Info().Msg("connected to postgres")

		return &storage{
			txManager: postgresRepo.NewTxManager(pool),
			accounts:  postgresRepo.NewAccountRepository(pool),
			transfers: postgresRepo.NewTransferRepository(pool),
			outbox:    postgresRepo.NewOutboxRepository(pool),
			audit:     postgresRepo.NewAuditRepository(pool),
			ledger:    postgresRepo.NewLedgerRepository(pool),
			retrier:   postgresRepo.NewRetrier(logger, cfg.TxMaxRetries),
			healthChecks: map[string]handler.Check{
				"postgres": pool.Ping,
			},
			close: pool.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// newApp wires storage, cache, use cases and the HTTP router. reg receives
// every collector so tests can pass a private registry.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegisterer(reg)

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &app{closers: []func(){store.close}}

	deps := usecase.TransferDeps{
		TxManager:    store.txManager,
		AccountRepo:  store.accounts,
		TransferRepo: store.transfers,
		OutboxRepo:   store.outbox,
		Retrier:      store.retrier,
		Metrics:      m,
		Logger:       logger,
	}

	var idempotency usecase.IdempotencyStore
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	if redisClient != nil {
		client := redisClient
		a.closers = append(a.closers, func() { _ = client.Close() })
		deps.Cache = redisRepo.NewTransferCache(client, cfg.TransferCacheTTL)
		idempotency = redisRepo.NewIdempotencyStore(client)
		store.healthChecks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	} else {
		logger.Warn().Msg("redis disabled; transfer cache and idempotency keys are off")
	}

	idGen := postgresRepo.NewULIDGenerator()
	audit := usecase.NewAuditRecorder(store.audit, idGen, m, logger)
	deps.IDGen = idGen
	deps.Audit = audit

	accountUC := usecase.NewAccountUseCase(store.txManager, store.accounts, store.outbox, idGen, audit, m, logger)
	transferUC := usecase.NewTransferUseCase(deps)
	ledgerUC := usecase.NewLedgerUseCase(store.ledger, logger)

	publisher, closePublisher, err := newEventPublisher(cfg, store.outbox, m, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closePublisher)
	a.publisher = publisher

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	}

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		TransferHandler:  handler.NewTransferHandler(transferUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		AuditHandler:     handler.NewAuditHandler(audit),
		HealthHandler:    handler.NewHealthHandler(store.healthChecks),
		Logger:           logger,
		Metrics:          m,
		HTTPMetrics:      middleware.NewHTTPMetrics(reg),
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		JWTManager:       jwtManager,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      a.rateLimiter,
		IdempotencyStore: idempotency,
	}
	a.handler = httpAdapter.NewRouter(routerCfg)

	return a, nil
}

// newEventPublisher drains the outbox to RabbitMQ, or to the log when no
// broker is configured.
func newEventPublisher(cfg *config.Config, outbox usecase.OutboxRepository, m *metrics.Metrics, logger zerolog.Logger) (*eventpublisher.EventPublisher, func(), error) {
	var (
		sink  eventpublisher.Publisher = eventpublisher.NewLogPublisher(logger)
		close                          = func() {}
	)

	if cfg.RabbitMQURL != "" {
		rmq, err := eventpublisher.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		logger.Info().Str("exchange", cfg.EventsExchange).Msg("publishing events to rabbitmq")
		sink = rmq
		close = func() {
			if err := rmq.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close rabbitmq publisher")
			}
		}
	}

	return eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outbox,
		Publisher:  sink,
		Metrics:    m,
		Logger:     logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	}), close, nil
}
