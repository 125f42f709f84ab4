package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/tests/mocks"
)

type pushMock struct {
	mock.Mock
}

func (m *pushMock) Notify(ctx context.Context, n service.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func TestNotificationService_RemindExpiringTrials(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// trial ends in 2 days
	expiring := f.account(t, nil)
	// still 14 days left
	f.clock.Advance(12 * 24 * time.Hour)
	fresh := f.account(t, nil)
	premium := f.account(t, func(a *entity.UserAccount) {
		a.TrialEndDate = expiring.TrialEndDate
		require.NoError(t, a.ApplyPlan(valueobject.PlanPremiumMonthly, start))
	})

	push := &pushMock{}
	push.On("Notify", mock.Anything, mock.MatchedBy(func(n service.Notification) bool {
		return n.UserID == expiring.ID && n.Kind == service.NotificationTrialExpiring
	})).Return(nil).Once()

	svc := service.NewNotificationService(f.repos.Accounts, push, f.clock, nop)
	sent, err := svc.RemindExpiringTrials(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	push.AssertExpectations(t)
	push.AssertNotCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(n service.Notification) bool {
		return n.UserID == fresh.ID || n.UserID == premium.ID
	}))
}

func TestNotificationService_Paging(t *testing.T) {
	ctx := context.Background()
	clock := service.ClockFunc(func() time.Time { return start })
	accounts := &mocks.MockAccountRepository{}

	full := make([]uuid.UUID, 200)
	for i := range full {
		full[i] = uuid.New()
	}
	account := entity.NewUserAccount("a@example.com", "A", start.Add(-12*24*time.Hour))

	accounts.On("ListIDs", ctx, uuid.Nil, 200).Return(full, nil).Once()
	accounts.On("ListIDs", ctx, full[199], 200).Return([]uuid.UUID{}, nil).Once()
	accounts.On("GetByID", ctx, mock.Anything).Return(account, nil)

	push := &pushMock{}
	push.On("Notify", mock.Anything, mock.Anything).Return(nil)

	svc := service.NewNotificationService(accounts, push, clock, nop)
	sent, err := svc.RemindExpiringTrials(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 200, sent)
	accounts.AssertExpectations(t)

	t.Run("list failure is returned", func(t *testing.T) {
		failing := &mocks.MockAccountRepository{}
		failing.On("ListIDs", ctx, uuid.Nil, 200).Return(nil, errors.New("db down"))
		svc := service.NewNotificationService(failing, push, clock, nop)
		_, err := svc.RemindExpiringTrials(ctx, 2)
		assert.Error(t, err)
	})
}
