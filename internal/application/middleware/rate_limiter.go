package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/infrastructure/logging"
)

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Rate   int           // requests per Period
	Burst  int           // maximum burst size
	Period time.Duration // defaults to one second
}

func (c RateLimitConfig) limit() redis_rate.Limit {
	period := c.Period
	if period == 0 {
		period = time.Second
	}
	return redis_rate.Limit{Rate: c.Rate, Burst: c.Burst, Period: period}
}

// RateLimiter manages rate limiting using Redis
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	logger   *zap.Logger
	failOpen bool // if true, allow requests when Redis is unavailable
	prefix   string
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redisClient *redis.Client, failOpen bool) *RateLimiter {
	limiter := redis_rate.NewLimiter(redisClient)
	return &RateLimiter{
		limiter:  limiter,
		logger:   logging.Logger,
		failOpen: failOpen,
		prefix:   "ratelimit:",
	}
}

// Middleware returns a Gin middleware for rate limiting
func (r *RateLimiter) Middleware(keyFunc func(*gin.Context) string, config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if key == "" {
			c.Next()
			return
		}

		res, err := r.limiter.Allow(c.Request.Context(), r.prefix+key, config.limit())
		if err != nil {
			r.logger.Error("rate limiter error", zap.Error(err))
			if r.failOpen {
				// Fail open - allow the request but log it
				c.Next()
				return
			}
			// Fail closed - return service unavailable
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "SERVICE_UNAVAILABLE",
				"message": "Rate limiting unavailable",
			})
			c.Abort()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", config.Rate))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(res.RetryAfter).Unix()))

		if res.Allowed == 0 {
			retryAfter := int(res.RetryAfter.Seconds()) + 1
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "RATE_LIMIT_EXCEEDED",
				"message":     "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Key functions for different rate limiting strategies

// ByIP limits requests by client IP address
func ByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUserID limits requests by authenticated user ID
func ByUserID(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}
	// Fall back to IP if not authenticated
	return ByIP(c)
}

// ByEndpoint limits requests by endpoint path
func ByEndpoint(c *gin.Context) string {
	return "endpoint:" + c.Request.URL.Path
}

// ByIPAndEndpoint limits requests by IP and endpoint combination
func ByIPAndEndpoint(c *gin.Context) string {
	return fmt.Sprintf("ip:%s:endpoint:%s", c.ClientIP(), c.Request.URL.Path)
}

// Predefined rate limit configurations
var (
	// Default rate limit: 60/minute with a burst of 10
	DefaultConfig = RateLimitConfig{
		Rate:  1,
		Burst: 10,
	}

	// Purchase rate limit: 10/minute with a burst of 3
	PurchaseConfig = RateLimitConfig{
		Rate:   10,
		Burst:  3,
		Period: time.Minute,
	}

	// Auth rate limit: 5/minute with a burst of 5
	AuthConfig = RateLimitConfig{
		Rate:   5,
		Burst:  5,
		Period: time.Minute,
	}
)
