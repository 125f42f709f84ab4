package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/internal/infrastructure/metrics"
)

func TestMetrics(t *testing.T) {
	t.Run("counts purchases by outcome", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.MustNewMetrics(reg)

		m.PurchaseCompleted(valueobject.PlanPremiumMonthly, entity.PurchaseResult{Success: true})
		m.PurchaseCompleted(valueobject.PlanPremiumMonthly, entity.PurchaseResult{Retryable: true})
		m.PurchaseCompleted(valueobject.PlanPremiumMonthly, entity.PurchaseResult{Retryable: true})

		count, err := testutil.GatherAndCount(reg, "habitpass_billing_purchases_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("counts grace days", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.MustNewMetrics(reg)

		require.NoError(t, m.GraceDayApplied(context.Background(), service.GraceDayApplied{}))

		count, err := testutil.GatherAndCount(reg, "habitpass_ledger_grace_days_applied_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("nil metrics is a no-op", func(t *testing.T) {
		var m *metrics.Metrics
		assert.NotPanics(t, func() {
			m.PurchaseCompleted(valueobject.PlanFree, entity.PurchaseResult{})
		})
	})

	t.Run("middleware observes request latency", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		reg := prometheus.NewRegistry()
		m := metrics.MustNewMetrics(reg)

		router := gin.New()
		router.Use(m.GinMiddleware())
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		count, err := testutil.GatherAndCount(reg, "habitpass_http_request_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
