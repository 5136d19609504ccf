// Package app wires tasklane's dependencies together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	identityCommands "github.com/felixgeelhaar/tasklane/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/tasklane/internal/identity/application/queries"
	identityDomain "github.com/felixgeelhaar/tasklane/internal/identity/domain"
	identityCache "github.com/felixgeelhaar/tasklane/internal/identity/infrastructure/cache"
	identityPersistence "github.com/felixgeelhaar/tasklane/internal/identity/infrastructure/persistence"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/commands"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
	"github.com/felixgeelhaar/tasklane/internal/productivity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/tasklane/internal/shared/application"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/tasklane/pkg/config"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis, nil when no cache is configured
	RedisClient *redis.Client
	UserCache   identityDomain.UserCache

	// Repositories
	UserRepo   identityDomain.UserRepository
	TaskRepo   task.Repository
	OutboxRepo outbox.Repository

	UnitOfWork sharedApplication.UnitOfWork

	// Events
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	// User handlers
	ListUsersHandler  *identityQueries.ListUsersHandler
	GetUserHandler    *identityQueries.GetUserHandler
	CreateUserHandler *identityCommands.CreateUserHandler
	UpdateUserHandler *identityCommands.UpdateUserHandler
	DeleteUserHandler *identityCommands.DeleteUserHandler

	// Task handlers
	ListTasksHandler   *queries.ListTasksHandler
	GetTaskHandler     *queries.GetTaskHandler
	ExportTasksHandler *queries.ExportTasksHandler
	CreateTaskHandler  *commands.CreateTaskHandler
	UpdateTaskHandler  *commands.UpdateTaskHandler
	DeleteTaskHandler  *commands.DeleteTaskHandler
}

// NewContainer opens the store, prepares the schema and builds every
// handler. Redis and RabbitMQ are optional in development: when they are
// unreachable the container falls back to no cache and a logging
// publisher. In production those failures are fatal.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	c.UserRepo = identityPersistence.NewUserRepository(c.DBConn)
	c.TaskRepo = persistence.NewTaskRepository(c.DBConn)
	c.OutboxRepo = outbox.NewSQLRepository(c.DBConn)
	c.UnitOfWork = database.NewUnitOfWork(c.DBConn)

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: outbox.DefaultProcessorConfig().RetryBackoffBase,
		RetryBackoffMax:  outbox.DefaultProcessorConfig().RetryBackoffMax,
		CleanupInterval:  cfg.OutboxCleanupInterval,
		RetentionDays:    cfg.OutboxRetentionDays,
	}, logger.With("component", "outbox"), c.Metrics)

	c.ListUsersHandler = identityQueries.NewListUsersHandler(c.UserRepo)
	c.GetUserHandler = identityQueries.NewGetUserHandler(c.UserRepo, c.UserCache)
	c.CreateUserHandler = identityCommands.NewCreateUserHandler(c.UserRepo, c.OutboxRepo, c.UnitOfWork, c.Metrics)
	c.UpdateUserHandler = identityCommands.NewUpdateUserHandler(c.UserRepo, c.OutboxRepo, c.UnitOfWork, c.UserCache)
	c.DeleteUserHandler = identityCommands.NewDeleteUserHandler(c.UserRepo, c.OutboxRepo, c.UnitOfWork, c.UserCache, c.Metrics)

	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)
	c.ExportTasksHandler = queries.NewExportTasksHandler(c.TaskRepo)
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.UserRepo, c.OutboxRepo, c.UnitOfWork, c.Metrics)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.TaskRepo, c.UserRepo, c.OutboxRepo, c.UnitOfWork)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, c.Metrics)

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	cfg := c.Config
	dbCfg := database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
	}
	if cfg.UsesSQLite() {
		dataDir, err := security.ValidatePath(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("invalid data directory: %w", err)
		}
		dbCfg.Driver = database.DriverSQLite
		dbCfg.SQLitePath = database.SQLitePath(dataDir)
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Logger.Info("connected to database", "driver", c.DBDriver, "path", dbCfg.SQLitePath)

	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if cfg.SeedSampleData {
		seeded, err := migrations.Seed(ctx, conn)
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("failed to seed sample data: %w", err)
		}
		if seeded {
			c.Logger.Info("inserted sample users and tasks")
		}
	}

	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	client, err := identityCache.Connect(ctx, c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return err
		}
		c.Logger.Warn("Redis not available, user cache disabled", "error", err)
		return nil
	}

	c.RedisClient = client
	c.UserCache = identityCache.NewRedisUserCache(client, c.Config.UserCacheTTL, c.Logger.With("component", "user_cache"), c.Metrics)
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL == "" {
		c.EventPublisher = eventbus.NewLogPublisher(c.Logger)
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQExchange, c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return err
		}
		c.Logger.Warn("RabbitMQ not available, events will only be logged", "error", err)
		c.EventPublisher = eventbus.NewLogPublisher(c.Logger)
		return nil
	}

	breakerCfg := eventbus.DefaultBreakerConfig()
	breakerCfg.FailureThreshold = uint32(c.Config.BreakerFailureThreshold)
	if c.Config.BreakerOpenTimeout > 0 {
		breakerCfg.OpenTimeout = c.Config.BreakerOpenTimeout
	}
	c.EventPublisher = eventbus.NewBreakerPublisher(publisher, breakerCfg, c.Logger)
	c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
	return nil
}

// StartOutboxProcessor starts relaying events when the processor is
// enabled. It stops when ctx is cancelled or on Close.
func (c *Container) StartOutboxProcessor(ctx context.Context) {
	if !c.Config.OutboxProcessorEnabled {
		c.Logger.Info("outbox processor disabled")
		return
	}
	c.OutboxProcessor.Start(ctx)
}

// Close cleans up all resources. It is safe to call on a partly built
// container.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	var errs []error
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event publisher: %w", err))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}

	if err := errors.Join(errs...); err != nil {
		c.Logger.Warn("error closing resources", "error", err)
	}
}
