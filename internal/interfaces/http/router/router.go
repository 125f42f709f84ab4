package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/infrastructure/logging"
	"github.com/bivex/habitpass/internal/infrastructure/metrics"
	"github.com/bivex/habitpass/internal/interfaces/http/handlers"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Auth        *handlers.AuthHandler
	Account     *handlers.AccountHandler
	Entitlement *handlers.EntitlementHandler
	Purchase    *handlers.PurchaseHandler
	GraceDay    *handlers.GraceDayHandler
	Habit       *handlers.HabitHandler
	Ad          *handlers.AdHandler
	Health      *handlers.HealthHandler
}

// Options configures the cross-cutting middleware. RateLimiter, Metrics and
// Gatherer are optional.
type Options struct {
	JWT         *middleware.JWTMiddleware
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	MetricsPath string
	Logger      *zap.Logger
}

// New builds the gin engine with every route registered
func New(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	RegisterRoutes(router, h, opts)
	return router
}

// RegisterRoutes registers middleware and all routes on r
func RegisterRoutes(r *gin.Engine, h Handlers, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger
	}

	r.Use(
		logging.RecoveryMiddleware(),
		logging.RequestMiddleware(logger),
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.GinMiddleware())
	}

	r.GET("/health", h.Health.Health)
	if opts.Gatherer != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	limit := func(key func(*gin.Context) string, cfg middleware.RateLimitConfig) gin.HandlerFunc {
		if opts.RateLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return opts.RateLimiter.Middleware(key, cfg)
	}

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(limit(middleware.ByIPAndEndpoint, middleware.AuthConfig))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		protected := v1.Group("")
		protected.Use(opts.JWT.Authenticate())
		protected.Use(limit(middleware.ByUserID, middleware.DefaultConfig))
		{
			protected.GET("/me", h.Account.Me)

			protected.GET("/entitlements", h.Entitlement.GetEntitlements)
			protected.GET("/entitlements/features/:feature", h.Entitlement.CheckFeature)

			protected.GET("/plans", h.Purchase.ListPlans)
			protected.GET("/purchases", h.Purchase.History)
			protected.POST("/purchases",
				limit(middleware.ByUserID, middleware.PurchaseConfig),
				h.Purchase.Purchase,
			)

			grace := protected.Group("/grace-days")
			grace.GET("", h.GraceDay.GetGraceDays)
			grace.POST("/apply", h.GraceDay.Apply)
			grace.POST("/purchase", h.GraceDay.Purchase)

			habits := protected.Group("/habits")
			habits.GET("", h.Habit.List)
			habits.POST("", h.Habit.Create)
			habits.GET("/:id", h.Habit.Get)
			habits.PATCH("/:id", h.Habit.Update)
			habits.DELETE("/:id", h.Habit.Delete)
			habits.POST("/:id/complete", h.Habit.Complete)
			habits.POST("/:id/incomplete", h.Habit.Incomplete)

			ads := protected.Group("/ads")
			ads.GET("/interstitial", h.Ad.Interstitial)
			ads.POST("/interstitial/shown", h.Ad.InterstitialShown)
			ads.GET("/banner", h.Ad.Banner)

			game := protected.Group("/gamification")
			game.GET("/badges", h.Account.Badges)
			game.POST("/badges/:id/unlock", h.Account.UnlockBadge)
			game.POST("/streak-corrections/buy", h.Account.BuyStreakCorrection)
			game.POST("/streak-corrections/use", h.Account.UseStreakCorrection)
		}
	}
}
