package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/di"
	"github.com/bivex/habitpass/internal/infrastructure/config"
	"github.com/bivex/habitpass/internal/infrastructure/logging"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/migrations"
	"github.com/bivex/habitpass/internal/interfaces/http/router"
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

	logging.Logger.Info("Starting HabitPass API server",
		zap.Int("port", cfg.Server.Port),
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage.Backend),
	)

	// Apply schema before serving when PostgreSQL is the store
	if cfg.Storage.Backend == config.StoragePostgres {
		if err := migrations.Up(cfg.Database.URL); err != nil {
			logging.Logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	ctx := context.Background()
	container, err := di.BuildContainer(ctx, cfg)
	if err != nil {
		logging.Logger.Fatal("Failed to build container", zap.Error(err))
	}
	defer container.Cleanup()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(container.Handlers(), container.RouterOptions())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		logging.Logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("Server exited")
}
