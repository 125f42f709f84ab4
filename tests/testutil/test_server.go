package testutil

import (
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/di"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/infrastructure/config"
	"github.com/bivex/habitpass/internal/infrastructure/external/billing"
	"github.com/bivex/habitpass/internal/infrastructure/metrics"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/kv"
	"github.com/bivex/habitpass/internal/interfaces/http/router"
)

// TestJWTConfig is the token configuration used by test servers
var TestJWTConfig = config.JWTConfig{
	Secret:     "test-secret-32-characters-long!!",
	AccessTTL:  15 * time.Minute,
	RefreshTTL: 24 * time.Hour,
	Issuer:     "habitpass-test",
}

// TestServer holds the test HTTP server and dependencies
type TestServer struct {
	Server   *httptest.Server
	Router   *gin.Engine
	Clock    *FrozenClock
	Store    *kv.MemoryStore // nil when WithRepositories is used
	Repos    di.Repositories
	Services di.Services
	JWT      *middleware.JWTMiddleware
	Registry *prometheus.Registry
}

// TestServerOption customizes NewTestServer
type TestServerOption func(*testServerConfig)

type testServerConfig struct {
	billing service.BillingProvider
	repos   *di.Repositories
}

// WithBilling replaces the instant-approve billing provider
func WithBilling(p service.BillingProvider) TestServerOption {
	return func(c *testServerConfig) { c.billing = p }
}

// WithRepositories serves from repos instead of a fresh in-memory store
func WithRepositories(repos di.Repositories) TestServerOption {
	return func(c *testServerConfig) { c.repos = &repos }
}

// NewTestServer wires the full API over an in-memory store and a frozen clock.
// Token revocation and rate limiting are disabled since no Redis is available.
func NewTestServer(clock *FrozenClock, opts ...TestServerOption) *TestServer {
	gin.SetMode(gin.TestMode)

	cfg := testServerConfig{billing: billing.NewMockProvider(0, 0)}
	for _, opt := range opts {
		opt(&cfg)
	}

	var store *kv.MemoryStore
	var repos di.Repositories
	if cfg.repos != nil {
		repos = *cfg.repos
	} else {
		store = kv.NewMemoryStore()
		repos = di.KVRepositories(store)
	}
	registry := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(registry)

	svcs := di.NewServices(repos, di.ServiceDeps{
		Billing:  cfg.billing,
		Clock:    clock,
		Logger:   zap.NewNop(),
		Observer: m,
		Notifier: m,
	})

	jwt := middleware.NewJWTMiddleware(TestJWTConfig, nil)
	engine := router.New(di.NewHandlers(svcs, jwt), router.Options{
		JWT:      jwt,
		Metrics:  m,
		Gatherer: registry,
		Logger:   zap.NewNop(),
	})

	return &TestServer{
		Server:   httptest.NewServer(engine),
		Router:   engine,
		Clock:    clock,
		Store:    store,
		Repos:    repos,
		Services: svcs,
		JWT:      jwt,
		Registry: registry,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// URL returns the base URL of the test server
func (ts *TestServer) URL() string {
	return ts.Server.URL
}
