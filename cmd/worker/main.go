package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/di"
	"github.com/bivex/habitpass/internal/infrastructure/config"
	"github.com/bivex/habitpass/internal/infrastructure/logging"
	worker_tasks "github.com/bivex/habitpass/internal/worker/tasks"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logging.Init(cfg.Environment, &cfg.Sentry); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Sync()

	logging.Logger.Info("Starting HabitPass worker",
		zap.Int("concurrency", cfg.Worker.Concurrency),
		zap.String("storage", cfg.Storage.Backend),
	)
	if cfg.Storage.Backend == config.StorageMemory {
		logging.Logger.Warn("Worker uses a private in-memory store; reconciliation will not see API data")
	}

	container, err := di.BuildContainer(context.Background(), cfg)
	if err != nil {
		logging.Logger.Fatal("Failed to build container", zap.Error(err))
	}
	defer container.Cleanup()

	server := asynq.NewServerFromRedisClient(container.Redis, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			// Exponential backoff: 2^n seconds
			return time.Duration(1<<uint(n)) * time.Second
		},
		Logger: logging.WithComponent("asynq").Sugar(),
	})

	mux := asynq.NewServeMux()
	worker_tasks.RegisterHandlers(mux, container.TaskHandlers())

	if err := server.Start(mux); err != nil {
		logging.Logger.Fatal("Failed to start worker", zap.Error(err))
	}

	scheduler := asynq.NewSchedulerFromRedisClient(container.Redis, nil)
	if err := worker_tasks.RegisterScheduledTasks(scheduler, cfg.Worker); err != nil {
		logging.Logger.Fatal("Failed to register scheduled tasks", zap.Error(err))
	}
	if err := scheduler.Start(); err != nil {
		logging.Logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	logging.Logger.Info("Worker started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("Shutting down worker...")

	scheduler.Shutdown()
	server.Shutdown()

	logging.Logger.Info("Worker exited")
}

