// Package di builds the dependency graph shared by the API and worker processes.
package di

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/infrastructure/config"
	"github.com/bivex/habitpass/internal/infrastructure/external/billing"
	"github.com/bivex/habitpass/internal/infrastructure/logging"
	"github.com/bivex/habitpass/internal/infrastructure/metrics"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/kv"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/pool"
	"github.com/bivex/habitpass/internal/interfaces/http/handlers"
	"github.com/bivex/habitpass/internal/interfaces/http/router"
	"github.com/bivex/habitpass/internal/worker/tasks"
)

// Container holds the process-wide dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Store    kv.Store
	Queue    *asynq.Client
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	JWT      *middleware.JWTMiddleware
	Repos    Repositories
	Services Services

	cleanups []func()
}

// BuildContainer connects to the configured backends and wires every service.
// On error, anything already opened is closed.
func BuildContainer(ctx context.Context, cfg *config.Config) (_ *Container, err error) {
	c := &Container{
		Config: cfg,
		Logger: logging.Logger,
	}
	defer func() {
		if err != nil {
			c.Cleanup()
		}
	}()

	c.Redis, err = NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	c.onCleanup(func() { _ = c.Redis.Close() })
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		c.Pool, err = pool.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		c.onCleanup(func() { pool.Close(c.Pool) })
		if err := pool.Ping(ctx, c.Pool); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		c.Repos = PostgresRepositories(c.Pool)
	case config.StorageRedis:
		c.Store = kv.NewRedisStore(c.Redis, cfg.Storage.KeyPrefix)
		c.Repos = KVRepositories(c.Store)
	case config.StorageMemory:
		c.Store = kv.NewMemoryStore()
		c.Repos = KVRepositories(c.Store)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	provider, err := billing.NewProvider(ctx, cfg.Billing, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create billing provider: %w", err)
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.MustNewMetrics(c.Registry)

	c.Queue = asynq.NewClientFromRedisClient(c.Redis)

	c.JWT = middleware.NewJWTMiddleware(cfg.JWT, c.Redis)

	c.Services = NewServices(c.Repos, ServiceDeps{
		Billing:  provider,
		Clock:    service.SystemClock{},
		Logger:   c.Logger,
		Observer: c.Metrics,
		Notifier: service.GraceDayNotifiers{
			c.Metrics,
			tasks.NewStreakReconciler(c.Queue),
		},
	})

	c.Logger.Info("container built",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("billing", provider.Name()),
	)
	return c, nil
}

// NewRedisClient opens a client from a redis:// URL
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.PoolTimeout = cfg.PoolTimeout
	return redis.NewClient(opts), nil
}

// HealthChecks probes every backend the container opened
func (c *Container) HealthChecks() []handlers.HealthCheck {
	checks := []handlers.HealthCheck{{
		Name:  "redis",
		Check: func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() },
	}}
	if c.Pool != nil {
		checks = append(checks, handlers.HealthCheck{
			Name:  "postgres",
			Check: func(ctx context.Context) error { return pool.Ping(ctx, c.Pool) },
		})
	}
	if c.Store != nil {
		checks = append(checks, handlers.HealthCheck{Name: "store", Check: c.Store.Ping})
	}
	return checks
}

// RouterOptions configures the HTTP middleware from the container
func (c *Container) RouterOptions() router.Options {
	opts := router.Options{
		JWT:         c.JWT,
		RateLimiter: middleware.NewRateLimiter(c.Redis, true),
		Logger:      c.Logger,
	}
	if c.Config.Metrics.Enabled {
		opts.Metrics = c.Metrics
		opts.Gatherer = c.Registry
		opts.MetricsPath = c.Config.Metrics.Path
	}
	return opts
}

// Handlers builds the HTTP handlers
func (c *Container) Handlers() router.Handlers {
	return NewHandlers(c.Services, c.JWT, c.HealthChecks()...)
}

// TaskHandlers builds the background task handlers
func (c *Container) TaskHandlers() *tasks.TaskHandlers {
	return tasks.NewTaskHandlers(c.Services.Habits, c.Repos.Accounts, c.Services.Notifications, c.Queue)
}

func (c *Container) onCleanup(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

// Cleanup releases resources in reverse order of acquisition
func (c *Container) Cleanup() {
	if c.Queue != nil {
		_ = c.Queue.Close()
		c.Queue = nil
	}
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}
