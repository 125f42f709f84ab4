package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// Billing providers
const (
	BillingMock      = "mock"
	BillingAppStore  = "appstore"
	BillingPlayStore = "playstore"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Storage     StorageConfig
	JWT         JWTConfig
	Billing     BillingConfig
	Sentry      SentryConfig
	Metrics     MetricsConfig
	Worker      WorkerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL          string
	Password     string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// StorageConfig selects where accounts, habits and the grace-day ledger live
type StorageConfig struct {
	Backend   string
	KeyPrefix string
}

// BillingConfig holds billing provider configuration
type BillingConfig struct {
	Provider          string
	Production        bool
	AppleSharedSecret string
	GoogleKeyJSON     string
	GooglePackageName string
	MockLatency       time.Duration
	MockFailureRate   float64
}

// SentryConfig holds Sentry configuration
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	Concurrency         int
	ReconcileCron       string
	TrialReminderCron   string
	TrialReminderWithin time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// .env file is optional for production (env vars are used)
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := fromViper(v)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Environment: v.GetString("app_env"),
		Server: ServerConfig{
			Port:            v.GetInt("server_port"),
			ReadTimeout:     v.GetDuration("server_read_timeout"),
			WriteTimeout:    v.GetDuration("server_write_timeout"),
			ShutdownTimeout: v.GetDuration("server_shutdown_timeout"),
		},
		Database: DatabaseConfig{
			URL:            v.GetString("database_url"),
			MaxConnections: v.GetInt("database_max_connections"),
			MinConnections: v.GetInt("database_min_connections"),
			MaxLifetime:    v.GetDuration("database_max_lifetime"),
			MaxIdleTime:    v.GetDuration("database_max_idle_time"),
			HealthCheck:    v.GetDuration("database_health_check"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis_url"),
			Password:     v.GetString("redis_password"),
			PoolSize:     v.GetInt("redis_pool_size"),
			MinIdleConns: v.GetInt("redis_min_idle_conns"),
			DialTimeout:  v.GetDuration("redis_dial_timeout"),
			ReadTimeout:  v.GetDuration("redis_read_timeout"),
			WriteTimeout: v.GetDuration("redis_write_timeout"),
			PoolTimeout:  v.GetDuration("redis_pool_timeout"),
		},
		Storage: StorageConfig{
			Backend:   strings.ToLower(v.GetString("storage_backend")),
			KeyPrefix: v.GetString("storage_key_prefix"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt_secret"),
			AccessTTL:  v.GetDuration("jwt_access_ttl"),
			RefreshTTL: v.GetDuration("jwt_refresh_ttl"),
			Issuer:     v.GetString("jwt_issuer"),
		},
		Billing: BillingConfig{
			Provider:          strings.ToLower(v.GetString("billing_provider")),
			Production:        v.GetBool("billing_production"),
			AppleSharedSecret: v.GetString("apple_shared_secret"),
			GoogleKeyJSON:     v.GetString("google_key_json"),
			GooglePackageName: v.GetString("google_package_name"),
			MockLatency:       v.GetDuration("billing_mock_latency"),
			MockFailureRate:   v.GetFloat64("billing_mock_failure_rate"),
		},
		Sentry: SentryConfig{
			DSN:         v.GetString("sentry_dsn"),
			Environment: v.GetString("sentry_environment"),
			Release:     v.GetString("sentry_release"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics_enabled"),
			Path:    v.GetString("metrics_path"),
		},
		Worker: WorkerConfig{
			Concurrency:         v.GetInt("worker_concurrency"),
			ReconcileCron:       v.GetString("worker_reconcile_cron"),
			TrialReminderCron:   v.GetString("worker_trial_reminder_cron"),
			TrialReminderWithin: v.GetDuration("worker_trial_reminder_within"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")

	// Server defaults
	v.SetDefault("server_port", 8080)
	v.SetDefault("server_read_timeout", 10*time.Second)
	v.SetDefault("server_write_timeout", 10*time.Second)
	v.SetDefault("server_shutdown_timeout", 30*time.Second)

	// Database defaults
	db := DefaultDatabaseConfig()
	v.SetDefault("database_max_connections", db.MaxConnections)
	v.SetDefault("database_min_connections", db.MinConnections)
	v.SetDefault("database_max_lifetime", db.MaxLifetime)
	v.SetDefault("database_max_idle_time", db.MaxIdleTime)
	v.SetDefault("database_health_check", db.HealthCheck)

	// JWT defaults
	v.SetDefault("jwt_access_ttl", 15*time.Minute)
	v.SetDefault("jwt_refresh_ttl", 720*time.Hour)
	v.SetDefault("jwt_issuer", "habitpass")

	// Redis defaults
	v.SetDefault("redis_pool_size", 10)
	v.SetDefault("redis_min_idle_conns", 3)
	v.SetDefault("redis_dial_timeout", 5*time.Second)
	v.SetDefault("redis_read_timeout", 3*time.Second)
	v.SetDefault("redis_write_timeout", 3*time.Second)
	v.SetDefault("redis_pool_timeout", 4*time.Second)

	// Storage defaults
	v.SetDefault("storage_backend", StoragePostgres)
	v.SetDefault("storage_key_prefix", "")

	// Billing defaults
	v.SetDefault("billing_provider", BillingMock)
	v.SetDefault("billing_mock_latency", 2*time.Second)
	v.SetDefault("billing_mock_failure_rate", 0.0)

	// Metrics defaults
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_path", "/metrics")

	// Worker defaults
	v.SetDefault("worker_concurrency", 10)
	v.SetDefault("worker_reconcile_cron", "15 0 * * *")
	v.SetDefault("worker_trial_reminder_cron", "0 9 * * *")
	v.SetDefault("worker_trial_reminder_within", 48*time.Hour)
}

func validate(cfg *Config) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if cfg.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	switch cfg.Storage.Backend {
	case StoragePostgres:
		if cfg.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage backend")
		}
	case StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.Storage.Backend)
	}

	switch cfg.Billing.Provider {
	case BillingMock:
		if cfg.Billing.MockFailureRate < 0 || cfg.Billing.MockFailureRate > 1 {
			return fmt.Errorf("BILLING_MOCK_FAILURE_RATE must be between 0 and 1")
		}
	case BillingAppStore:
		if cfg.Billing.AppleSharedSecret == "" {
			return fmt.Errorf("APPLE_SHARED_SECRET is required for the appstore billing provider")
		}
	case BillingPlayStore:
		if cfg.Billing.GoogleKeyJSON == "" || cfg.Billing.GooglePackageName == "" {
			return fmt.Errorf("GOOGLE_KEY_JSON and GOOGLE_PACKAGE_NAME are required for the playstore billing provider")
		}
	default:
		return fmt.Errorf("unknown BILLING_PROVIDER %q", cfg.Billing.Provider)
	}
	return nil
}

// IsProduction reports whether the process runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
