package billing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/infrastructure/config"
)

// NewProvider builds the configured billing provider
func NewProvider(ctx context.Context, cfg config.BillingConfig, logger *zap.Logger) (service.BillingProvider, error) {
	products := DefaultProducts(productPrefix(cfg))

	switch cfg.Provider {
	case config.BillingMock:
		logger.Info("using mock billing provider",
			zap.Duration("latency", cfg.MockLatency),
			zap.Float64("failure_rate", cfg.MockFailureRate),
		)
		return NewMockProvider(cfg.MockLatency, cfg.MockFailureRate), nil
	case config.BillingAppStore:
		return NewAppStoreProvider(cfg.AppleSharedSecret, products), nil
	case config.BillingPlayStore:
		return NewPlayStoreProvider(ctx, cfg.GoogleKeyJSON, cfg.GooglePackageName, products)
	default:
		return nil, fmt.Errorf("unknown billing provider %q", cfg.Provider)
	}
}

func productPrefix(cfg config.BillingConfig) string {
	if cfg.GooglePackageName != "" {
		return cfg.GooglePackageName
	}
	return "com.habitpass"
}
