package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcwait "github.com/testcontainers/testcontainers-go/wait"

	"github.com/bivex/habitpass/internal/infrastructure/persistence/migrations"
)

// TestDBContainer holds the PostgreSQL test container
type TestDBContainer struct {
	Container  *postgres.PostgresContainer
	ConnString string
	Pool       *pgxpool.Pool
}

// SetupTestDBContainer starts PostgreSQL and applies the embedded migrations
func SetupTestDBContainer(ctx context.Context, t *testing.T) (*TestDBContainer, error) {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("habitpass_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			tcwait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := migrations.Up(connString); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &TestDBContainer{
		Container:  container,
		ConnString: connString,
		Pool:       pool,
	}, nil
}

// TruncateAll empties every table between tests
func (tc *TestDBContainer) TruncateAll(ctx context.Context) error {
	_, err := tc.Pool.Exec(ctx, `TRUNCATE accounts, habits, habit_completions, grace_day_actions, badges, transactions CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// Teardown cleans up the test container
func (tc *TestDBContainer) Teardown(ctx context.Context, t *testing.T) {
	t.Helper()
	if tc.Pool != nil {
		tc.Pool.Close()
	}
	if err := tc.Container.Terminate(ctx); err != nil {
		t.Logf("failed to terminate postgres container: %v", err)
	}
}

// TestRedisContainer holds the Redis test container
type TestRedisContainer struct {
	Container testcontainers.Container
	Client    *redis.Client
}

// SetupTestRedisContainer starts Redis and returns a connected client
func SetupTestRedisContainer(ctx context.Context, t *testing.T) (*TestRedisContainer, error) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   tcwait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &TestRedisContainer{Container: container, Client: client}, nil
}

// Teardown cleans up the test container
func (tc *TestRedisContainer) Teardown(ctx context.Context, t *testing.T) {
	t.Helper()
	_ = tc.Client.Close()
	if err := tc.Container.Terminate(ctx); err != nil {
		t.Logf("failed to terminate redis container: %v", err)
	}
}
