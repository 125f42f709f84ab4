//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/bivex/habitpass/internal/di"
	"github.com/bivex/habitpass/tests/testutil"
)

// E2ETestSuite holds the E2E test environment
type E2ETestSuite struct {
	DBContainer *testutil.TestDBContainer
	APIServer   *testutil.TestServer
	Clock       *testutil.FrozenClock
}

// SetupE2ETestSuite starts PostgreSQL and serves the API from it
func SetupE2ETestSuite(ctx context.Context, t *testing.T, now time.Time) *E2ETestSuite {
	t.Helper()

	dbContainer, err := testutil.SetupTestDBContainer(ctx, t)
	if err != nil {
		t.Fatalf("failed to start db container: %v", err)
	}

	clock := testutil.NewFrozenClock(now)
	server := testutil.NewTestServer(clock, testutil.WithRepositories(di.PostgresRepositories(dbContainer.Pool)))

	return &E2ETestSuite{
		DBContainer: dbContainer,
		APIServer:   server,
		Clock:       clock,
	}
}

// Teardown cleans up all containers and services
func (suite *E2ETestSuite) Teardown(ctx context.Context, t *testing.T) {
	t.Helper()

	if suite.APIServer != nil {
		suite.APIServer.Close()
	}
	if suite.DBContainer != nil {
		suite.DBContainer.Teardown(ctx, t)
	}
}

// NewClient returns an anonymous API client
func (suite *E2ETestSuite) NewClient() *testutil.APIClient {
	return testutil.NewAPIClient(suite.APIServer.URL())
}
