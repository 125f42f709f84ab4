package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

const namespace = "habitpass"

// Metrics holds the Prometheus collectors for the service
type Metrics struct {
	purchases       *prometheus.CounterVec
	graceDays       prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// MustNewMetrics registers the collectors with reg and panics on conflict.
// A nil reg uses the default registerer.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		purchases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "billing",
				Name:      "purchases_total",
				Help:      "Purchase attempts by plan and outcome.",
			},
			[]string{"plan", "result"},
		),
		graceDays: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "grace_days_applied_total",
				Help:      "Grace days applied to habits.",
			},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route and status.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(m.purchases, m.graceDays, m.requestDuration)
	return m
}

// PurchaseCompleted counts a purchase outcome
func (m *Metrics) PurchaseCompleted(planID valueobject.PlanID, result entity.PurchaseResult) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(planID.String(), purchaseOutcome(result)).Inc()
}

// GraceDayApplied counts an applied grace day
func (m *Metrics) GraceDayApplied(_ context.Context, _ service.GraceDayApplied) error {
	if m == nil {
		return nil
	}
	m.graceDays.Inc()
	return nil
}

// GinMiddleware records request latency. Unmatched routes share one label.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func purchaseOutcome(result entity.PurchaseResult) string {
	switch {
	case result.Success:
		return "success"
	case result.Retryable:
		return "retryable"
	default:
		return "rejected"
	}
}
