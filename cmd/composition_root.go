package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderflow/api"
	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	redisadapter "orderflow/internal/adapters/out/redis"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/telemetry"
	"orderflow/internal/processing"

	"github.com/labstack/echo/v4"
)

type CompositionRoot struct {
	cfg     Config
	logger  *slog.Logger
	metrics *telemetry.Metrics
	clock   kernel.Clock

	uowFactory ports.UnitOfWorkFactory
	reader     ports.OrderReader
	publisher  ports.OrderEventPublisher
	cache      queries.StatusCache
	engine     *processing.Engine

	closers []func() error
}

// NewCompositionRoot connects the configured store and optional Kafka and Redis
// integrations and builds the processing engine.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:     cfg,
		logger:  logger,
		metrics: telemetry.New(),
		clock:   kernel.SystemClock{},
	}

	if err := c.initStore(); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	if err := c.initIntegrations(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	delays := commands.Delays{
		Acquisition:   cfg.AcquisitionDelay,
		ProcessingMin: cfg.ProcessingDelayMin,
		ProcessingMax: cfg.ProcessingDelayMax,
	}
	if err := delays.Validate(); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	processor := commands.NewProcessOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.clock, delays, nil)
	c.engine = processing.NewEngine(processing.Config{
		Workers:       cfg.WorkerPoolSize,
		QueueCapacity: cfg.QueueCapacity,
	}, &processor, c.metrics, logger)

	return c, nil
}

func (c *CompositionRoot) initStore() error {
	switch c.cfg.StoreDriver {
	case StoreDriverMemory:
		store := memory.NewStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(store)
		c.reader = store
	case StoreDriverPostgres, "":
		dsn := postgres.DSN(c.cfg.DBHost, c.cfg.DBPort, c.cfg.DBUser, c.cfg.DBPassword, c.cfg.DBName, c.cfg.DBSslMode)
		db, err := postgres.Open(dsn)
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB.Close)

		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.reader = orderrepo.NewGormOrderRepository(db)
	default:
		return fmt.Errorf("unknown store driver %q", c.cfg.StoreDriver)
	}

	c.logger.Info("Order store ready", "driver", c.cfg.StoreDriver)
	return nil
}

func (c *CompositionRoot) initIntegrations(ctx context.Context) error {
	var next ports.OrderEventPublisher
	if c.cfg.KafkaHost != "" {
		publisher := kafka.NewOrderEventPublisher(
			kafka.NewWriter(c.cfg.KafkaHost, c.cfg.KafkaOrderChangedTopic, c.logger),
			c.logger,
		)
		c.closers = append(c.closers, publisher.Close)
		next = publisher
		c.logger.Info("Publishing order events", "topic", c.cfg.KafkaOrderChangedTopic)
	}
	c.publisher = processing.NewInstrumentedPublisher(next, c.metrics)

	if c.cfg.RedisAddr != "" {
		client, err := redisadapter.NewClient(ctx, c.cfg.RedisAddr)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, client.Close)
		c.cache = redisadapter.NewStatusCache(client, c.cfg.StatusCacheTTL, c.logger)
		c.logger.Info("Caching completed order status", "addr", c.cfg.RedisAddr)
	}

	return nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) Engine() *processing.Engine {
	return c.engine
}

func (c *CompositionRoot) Metrics() *telemetry.Metrics {
	return c.metrics
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.engine, c.publisher, c.clock)
}

func (c *CompositionRoot) CreatePopulateOrdersCommandHandler() commands.PopulateOrdersCommandHandler {
	creator := c.CreateCreateOrderCommandHandler()
	return commands.NewPopulateOrdersCommandHandler(c.reader, &creator, nil)
}

func (c *CompositionRoot) CreateRecoverPendingOrdersCommandHandler() commands.RecoverPendingOrdersCommandHandler {
	return commands.NewRecoverPendingOrdersCommandHandler(c.reader, c.engine)
}

func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() queries.GetOrderStatusQueryHandler {
	return queries.NewGetOrderStatusQueryHandler(c.reader, c.cache)
}

func (c *CompositionRoot) CreateGetMetricsQueryHandler() queries.GetMetricsQueryHandler {
	return queries.NewGetMetricsQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	recoverHandler := c.CreateRecoverPendingOrdersCommandHandler()
	return jobs.NewJobManager(jobs.Config{
		MetricsReportSchedule:   c.cfg.MetricsReportSchedule,
		PendingRecoverySchedule: c.cfg.PendingRecoverySchedule,
		RecoverPendingOnStart:   c.cfg.RecoverPendingOnStart,
	}, c.CreateGetMetricsQueryHandler(), &recoverHandler, c.metrics, c.logger)
}

// CreateHTTPRouter builds the echo instance and publishes the API document to Swagger.
func (c *CompositionRoot) CreateHTTPRouter(ctx context.Context) (*echo.Echo, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err = api.RegisterSwagger(doc); err != nil {
		return nil, err
	}

	createOrderHandler := c.CreateCreateOrderCommandHandler()
	populateOrdersHandler := c.CreatePopulateOrdersCommandHandler()

	server := httpadapter.NewServer(
		&createOrderHandler,
		&populateOrdersHandler,
		c.CreateGetOrderStatusQueryHandler(),
		c.CreateGetMetricsQueryHandler(),
	)

	return httpadapter.NewRouter(server, doc, c.metrics, c.logger)
}

// Close releases connections in reverse order of acquisition.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
