package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/application/command"
	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/di"
	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/infrastructure/external/billing"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/kv"
	"github.com/bivex/habitpass/tests/testutil"
)

var now = testutil.Date(2024, time.March, 10)

func newServices() di.Services {
	return di.NewServices(di.KVRepositories(kv.NewMemoryStore()), di.ServiceDeps{
		Billing: billing.NewMockProvider(0, 0),
		Clock:   testutil.NewFrozenClock(now),
	})
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *domainErrors.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	assert.Equal(t, field, verr.Field)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidInput)
}

func TestRegisterCommand(t *testing.T) {
	ctx := context.Background()
	svcs := newServices()
	cmd := command.NewRegisterCommand(svcs.Accounts, middleware.NewJWTMiddleware(testutil.TestJWTConfig, nil))

	t.Run("issues tokens for a new account", func(t *testing.T) {
		resp, err := cmd.Execute(ctx, &dto.RegisterRequest{Email: "Cmd@Example.com", Name: "Cmd"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, int64(900), resp.ExpiresIn)
		assert.Equal(t, "cmd@example.com", resp.Account.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := cmd.Execute(ctx, &dto.RegisterRequest{Email: "cmd@example.com"})
		assert.ErrorIs(t, err, domainErrors.ErrAccountAlreadyExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := cmd.Execute(ctx, &dto.RegisterRequest{Email: "nope"})
		assertFieldError(t, err, "email")
	})
}

func TestPurchasePlanCommand(t *testing.T) {
	ctx := context.Background()
	svcs := newServices()
	cmd := command.NewPurchasePlanCommand(svcs.Purchases)

	t.Run("unknown plan names the field", func(t *testing.T) {
		_, err := cmd.Execute(ctx, uuid.NewString(), &dto.PurchaseRequest{PlanID: "lifetime"})
		assertFieldError(t, err, "planid")
	})

	t.Run("malformed user id", func(t *testing.T) {
		_, err := cmd.Execute(ctx, "not-a-uuid", &dto.PurchaseRequest{PlanID: "premium-monthly"})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidInput)
	})

	t.Run("missing account is reported in the response", func(t *testing.T) {
		resp, err := cmd.Execute(ctx, uuid.NewString(), &dto.PurchaseRequest{PlanID: "premium-monthly"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "User not authenticated", resp.Error)
	})
}

func TestGraceDayCommands(t *testing.T) {
	ctx := context.Background()
	svcs := newServices()
	account, err := svcs.Accounts.SignUp(ctx, "grace@example.com", "Grace")
	require.NoError(t, err)
	uid := account.ID.String()

	apply := command.NewApplyGraceDayCommand(svcs.GraceDays)
	purchase := command.NewPurchaseGraceDaysCommand(svcs.GraceDays)

	t.Run("habit id must be a uuid", func(t *testing.T) {
		_, err := apply.Execute(ctx, uid, &dto.ApplyGraceDayRequest{HabitID: "habit-1"})
		assertFieldError(t, err, "habitid")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := apply.Execute(ctx, uid, &dto.ApplyGraceDayRequest{HabitID: uuid.NewString(), Type: "bonus"})
		assertFieldError(t, err, "type")
	})

	t.Run("malformed covered day", func(t *testing.T) {
		_, err := apply.Execute(ctx, uid, &dto.ApplyGraceDayRequest{HabitID: uuid.NewString(), CoveredDay: "10/03/2024"})
		assertFieldError(t, err, "coveredday")
	})

	t.Run("count out of range", func(t *testing.T) {
		_, err := purchase.Execute(ctx, uid, &dto.PurchaseGraceDaysRequest{Count: 4})
		assertFieldError(t, err, "count")
	})

	t.Run("insufficient xp is a refusal", func(t *testing.T) {
		resp, err := purchase.Execute(ctx, uid, &dto.PurchaseGraceDaysRequest{Count: 1})
		require.NoError(t, err)
		assert.False(t, resp.Applied)
		assert.Equal(t, entity.ErrInsufficientXP.Error(), resp.Reason)
		assert.Equal(t, 3, resp.Remaining)
	})
}
