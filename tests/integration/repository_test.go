//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/di"
	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/kv"
	"github.com/bivex/habitpass/tests/testutil"
)

func setupPostgres(t *testing.T) (*testutil.TestDBContainer, di.Repositories) {
	t.Helper()
	ctx := context.Background()
	db, err := testutil.SetupTestDBContainer(ctx, t)
	require.NoError(t, err)
	t.Cleanup(func() { db.Teardown(ctx, t) })
	return db, di.PostgresRepositories(db.Pool)
}

func TestPostgresRepositories(t *testing.T) {
	ctx := context.Background()
	db, repos := setupPostgres(t)
	accounts := testutil.NewAccountFactory()

	t.Run("account round trip", func(t *testing.T) {
		a := accounts.CreateWithXP(start, 120)
		require.NoError(t, repos.Accounts.Create(ctx, a))

		got, err := repos.Accounts.GetByEmail(ctx, a.Email)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, 120, got.XP)
		assert.Equal(t, 3, got.StreakCorrections)
		assert.True(t, a.TrialEndDate.Equal(got.TrialEndDate))

		assert.ErrorIs(t, repos.Accounts.Create(ctx, entity.NewUserAccount(a.Email, "Dup", start)), domainErrors.ErrAccountAlreadyExists)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := repos.Accounts.GetByID(ctx, uuid.New())
		assert.True(t, domainErrors.IsNotFound(err))
	})

	t.Run("habit completions persist", func(t *testing.T) {
		a := accounts.Create(start)
		require.NoError(t, repos.Accounts.Create(ctx, a))

		today := valueobject.DayOf(start)
		h := testutil.NewHabitFactory().CreateWithHistory(a.ID, start, today.AddDays(-2), today.AddDays(-1), today)
		require.NoError(t, repos.Habits.Create(ctx, h))

		got, err := repos.Habits.GetByID(ctx, a.ID, h.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Streak())
		assert.Len(t, got.CompletionHistory, 3)

		got.MarkIncomplete(today, nil, start)
		require.NoError(t, repos.Habits.Update(ctx, got))
		reloaded, err := repos.Habits.GetByID(ctx, a.ID, h.ID)
		require.NoError(t, err)
		rec, ok := reloaded.RecordFor(today)
		require.True(t, ok)
		assert.False(t, rec.Completed)

		_, err = repos.Habits.GetByID(ctx, uuid.New(), h.ID)
		assert.True(t, domainErrors.IsNotFound(err))
	})

	t.Run("concurrent grace day purchases spend once", func(t *testing.T) {
		a := accounts.CreateWithXP(start, 250)
		require.NoError(t, repos.Accounts.Create(ctx, a))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = repos.GraceDays.Append(ctx, a.ID, func(acc *entity.UserAccount, _ []*entity.GraceDayAction) (*entity.GraceDayAction, error) {
					if err := acc.SpendXPForGraceDays(2, 100, start); err != nil {
						return nil, err
					}
					return entity.NewGraceDayPurchase(acc.ID, 200, start), nil
				})
			}(i)
		}
		wg.Wait()
		// the row lock makes the second writer see the first one's spend
		assert.ElementsMatch(t, []bool{true, false}, []bool{errs[0] == nil, errs[1] == nil})

		got, err := repos.Accounts.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, got.XP)
		assert.Equal(t, 2, got.GraceDaysEarned)

		entries, err := repos.GraceDays.ListByUserID(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, valueobject.GraceDayXPPurchase, entries[0].Type)
	})

	t.Run("badges", func(t *testing.T) {
		a := accounts.Create(start)
		require.NoError(t, repos.Accounts.Create(ctx, a))

		badges := entity.DefaultBadges(a.ID)
		badges[0].Unlock(start)
		require.NoError(t, repos.Badges.SaveAll(ctx, a.ID, badges))

		got, err := repos.Badges.ListByUserID(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, got, len(badges))
		assert.True(t, got[0].IsUnlocked())
	})

	t.Run("transactions detect replayed receipts", func(t *testing.T) {
		a := accounts.Create(start)
		require.NoError(t, repos.Accounts.Create(ctx, a))
		price, err := valueobject.NewMoney(0.99, "USD")
		require.NoError(t, err)

		require.NoError(t, a.ApplyPlan(valueobject.PlanPremiumMonthly, start))
		txn := entity.NewTransaction(a.ID, valueobject.PlanPremiumMonthly, price, "mock", start)
		txn.ReceiptHash = "pg-receipt"
		require.NoError(t, repos.Transactions.Record(ctx, txn, a))

		dup, err := repos.Transactions.CheckDuplicateReceipt(ctx, "pg-receipt")
		require.NoError(t, err)
		assert.True(t, dup)

		got, err := repos.Accounts.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, got.Premium)
	})

	t.Run("delete cascades", func(t *testing.T) {
		a := accounts.Create(start)
		require.NoError(t, repos.Accounts.Create(ctx, a))
		require.NoError(t, repos.Habits.Create(ctx, testutil.NewHabitFactory().CreateDaily(a.ID, start)))

		require.NoError(t, repos.Accounts.Delete(ctx, a.ID))
		habits, err := repos.Habits.ListByUserID(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, habits)
	})

	require.NoError(t, db.TruncateAll(ctx))
}

func TestPostgresServer(t *testing.T) {
	_, repos := setupPostgres(t)
	ts := newServer(t, testutil.WithRepositories(repos))
	client := register(t, ts, "pg@example.com")

	resp, body, err := client.Do(http.MethodGet, "/v1/habits", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]any](t, body), 3)

	ts.Clock.Set(start.Add(20 * 24 * time.Hour))
	resp, body, err = client.Do(http.MethodGet, "/v1/ads/banner", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"show":true`)
}

func TestRedisBackends(t *testing.T) {
	ctx := context.Background()
	rc, err := testutil.SetupTestRedisContainer(ctx, t)
	require.NoError(t, err)
	t.Cleanup(func() { rc.Teardown(ctx, t) })

	t.Run("kv store serves the repositories", func(t *testing.T) {
		repos := di.KVRepositories(kv.NewRedisStore(rc.Client, "it:"))
		a := testutil.NewAccountFactory().Create(start)
		require.NoError(t, repos.Accounts.Create(ctx, a))

		got, err := repos.Accounts.GetByEmail(ctx, a.Email)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("rate limiter refuses past the burst", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		limit := middleware.RateLimitConfig{Rate: 2, Burst: 2, Period: time.Minute}
		r.GET("/limited", middleware.NewRateLimiter(rc.Client, false).Middleware(middleware.ByIP, limit), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/limited", nil)
			req.RemoteAddr = "10.1.1.1:1234"
			r.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}
		assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	})

	t.Run("revoked tokens are shared through redis", func(t *testing.T) {
		j := middleware.NewJWTMiddleware(testutil.TestJWTConfig, rc.Client)
		_, jti, err := j.GenerateAccessToken(uuid.NewString())
		require.NoError(t, err)

		require.NoError(t, j.RevokeToken(ctx, jti, time.Minute))
		revoked, err := middleware.NewJWTMiddleware(testutil.TestJWTConfig, rc.Client).IsRevoked(ctx, jti)
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}
