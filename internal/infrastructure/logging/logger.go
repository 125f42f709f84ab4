package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bivex/habitpass/internal/infrastructure/config"
)

var Logger = zap.NewNop()

// Init initializes the global logger and, when a DSN is set, Sentry error reporting
func Init(environment string, cfg *config.SentryConfig) error {
	var err error
	var zapConfig zap.Config

	// Use development config in dev, production config everywhere else
	if environment == "development" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	// Output to stdout by default
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	var opts []zap.Option
	if cfg != nil && cfg.DSN != "" {
		sentryEnv := cfg.Environment
		if sentryEnv == "" {
			sentryEnv = environment
		}
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.DSN,
			Environment: sentryEnv,
			Release:     cfg.Release,
		}); err != nil {
			return fmt.Errorf("failed to initialize sentry: %w", err)
		}
		opts = append(opts, zap.Hooks(sentryHook))
	}

	Logger, err = zapConfig.Build(opts...)
	if err != nil {
		return err
	}
	return nil
}

// sentryHook forwards error-level entries to Sentry
func sentryHook(entry zapcore.Entry) error {
	if entry.Level < zapcore.ErrorLevel {
		return nil
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		if entry.LoggerName != "" {
			scope.SetTag("logger", entry.LoggerName)
		}
		sentry.CaptureMessage(entry.Message)
	})
	return nil
}

// Sync flushes any buffered log entries and pending Sentry events
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
	sentry.Flush(2 * time.Second)
}

// WithComponent creates a child logger with a component field
func WithComponent(component string) *zap.Logger {
	return Logger.With(zap.String("component", component))
}

// WithRequestID creates a child logger with a request_id field
func WithRequestID(requestID string) *zap.Logger {
	return Logger.With(zap.String("request_id", requestID))
}

// WithUserID creates a child logger with a user_id field
func WithUserID(userID string) *zap.Logger {
	return Logger.With(zap.String("user_id", userID))
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
	os.Exit(1)
}
