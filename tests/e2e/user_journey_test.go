//go:build e2e

package e2e

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/tests/testutil"
)

func TestUserJourney(t *testing.T) {
	ctx := context.Background()
	start := testutil.Date(2024, time.March, 1)

	suite := SetupE2ETestSuite(ctx, t, start)
	defer suite.Teardown(ctx, t)

	client := suite.NewClient()
	var habitID string

	entitlements := func(t *testing.T) dto.EntitlementsResponse {
		t.Helper()
		resp, body, err := client.Do(http.MethodGet, "/v1/entitlements", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		out, err := testutil.Decode[dto.EntitlementsResponse](body)
		require.NoError(t, err)
		return out
	}

	t.Run("Step 1: Register", func(t *testing.T) {
		_, err := client.Register("journey@example.com", "Journey")
		require.NoError(t, err)
		assert.True(t, entitlements(t).Trial.IsActive)
	})

	t.Run("Step 2: Track a habit during the trial", func(t *testing.T) {
		resp, body, err := client.Do(http.MethodPost, "/v1/habits", dto.CreateHabitRequest{Title: "Read", XPReward: 40})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		habit, err := testutil.Decode[dto.HabitResponse](body)
		require.NoError(t, err)
		habitID = habit.ID

		for _, day := range []string{"2024-03-01", "2024-03-02"} {
			suite.Clock.Set(testutil.Date(2024, time.March, 2))
			resp, body, err := client.Do(http.MethodPost, "/v1/habits/"+habitID+"/complete", dto.MarkHabitRequest{Date: day})
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		}
	})

	t.Run("Step 3: Grace day keeps the streak alive", func(t *testing.T) {
		suite.Clock.Set(testutil.Date(2024, time.March, 4))
		resp, body, err := client.Do(http.MethodPost, "/v1/grace-days/apply", dto.ApplyGraceDayRequest{HabitID: habitID})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		result, err := testutil.Decode[dto.GraceDayResultResponse](body)
		require.NoError(t, err)
		assert.True(t, result.Applied)

		resp, body, err = client.Do(http.MethodPost, "/v1/habits/"+habitID+"/complete", dto.MarkHabitRequest{Date: "2024-03-04"})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		habit, err := testutil.Decode[dto.HabitResponse](body)
		require.NoError(t, err)
		assert.Equal(t, 4, habit.Streak)
	})

	t.Run("Step 4: Trial expires", func(t *testing.T) {
		suite.Clock.Set(start.Add(15 * 24 * time.Hour))
		e := entitlements(t)
		assert.True(t, e.Trial.HasExpired)
		assert.Equal(t, service.FreeTaskLimit, e.TaskLimit)
		assert.NotEmpty(t, e.LockedFeatures)
		assert.True(t, e.ShowBanner)
	})

	t.Run("Step 5: Buy premium", func(t *testing.T) {
		resp, body, err := client.Do(http.MethodPost, "/v1/purchases", dto.PurchaseRequest{PlanID: "premium-annual", ReceiptData: "journey-receipt"})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		out, err := testutil.Decode[dto.PurchaseResponse](body)
		require.NoError(t, err)
		require.True(t, out.Success, out.Error)

		e := entitlements(t)
		assert.True(t, e.Premium)
		assert.Empty(t, e.LockedFeatures)
		assert.Equal(t, service.Unlimited, e.TaskLimit)
		assert.False(t, e.ShowBanner)
		assert.False(t, e.CanShowInterstitial)
	})

	t.Run("Step 6: Purchase history", func(t *testing.T) {
		resp, body, err := client.Do(http.MethodGet, "/v1/purchases", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Contains(t, string(body), "premium-annual")
	})
}
