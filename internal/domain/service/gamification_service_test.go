package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/tests/mocks"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp, level, toNext int
	}{
		{0, 1, 100},
		{99, 1, 1},
		{100, 2, 150},
		{260, 3, 240},
		{9999, 9, 1},
		{10000, 10, 0},
		{50000, 10, 0},
	}
	for _, tt := range tests {
		level, toNext := entity.LevelForXP(tt.xp)
		assert.Equal(t, tt.level, level, "xp=%d", tt.xp)
		assert.Equal(t, tt.toNext, toNext, "xp=%d", tt.xp)
	}
}

func TestGamificationService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*fixture, *service.GamificationService, *entity.UserAccount) {
		f := newFixture()
		svc := service.NewGamificationService(f.repos.Accounts, f.repos.Badges, f.clock, nop)
		account := f.account(t, nil)
		require.NoError(t, f.repos.Badges.SaveAll(ctx, account.ID, entity.DefaultBadges(account.ID)))
		return f, svc, account
	}

	t.Run("xp levels the account up", func(t *testing.T) {
		_, svc, account := newService()
		updated, err := svc.AddXP(ctx, account.ID, 120)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Level)
		assert.Equal(t, 130, updated.XPToNextLevel)

		_, err = svc.AddXP(ctx, account.ID, 0)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})

	t.Run("currency cannot go negative", func(t *testing.T) {
		f, svc, account := newService()
		_, err := svc.AddCurrency(ctx, account.ID, 50)
		require.NoError(t, err)

		_, err = svc.SpendCurrency(ctx, account.ID, 80)
		assert.ErrorIs(t, err, entity.ErrInsufficientCurrency)
		assert.Equal(t, 50, f.reload(t, account).Currency)
	})

	t.Run("streak corrections are bought with currency", func(t *testing.T) {
		f, svc, account := newService()
		_, err := svc.BuyStreakCorrection(ctx, account.ID)
		assert.ErrorIs(t, err, entity.ErrInsufficientCurrency)

		_, err = svc.AddCurrency(ctx, account.ID, service.StreakCorrectionCost)
		require.NoError(t, err)
		updated, err := svc.BuyStreakCorrection(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, updated.Currency)
		assert.Equal(t, account.StreakCorrections+1, updated.StreakCorrections)
		assert.Equal(t, updated.StreakCorrections, f.reload(t, account).StreakCorrections)
	})

	t.Run("using corrections runs out", func(t *testing.T) {
		_, svc, account := newService()
		for i := 0; i < account.StreakCorrections; i++ {
			_, err := svc.UseStreakCorrection(ctx, account.ID)
			require.NoError(t, err)
		}
		_, err := svc.UseStreakCorrection(ctx, account.ID)
		assert.ErrorIs(t, err, entity.ErrNoStreakCorrections)
	})

	t.Run("badge unlocks once and grants xp", func(t *testing.T) {
		f, svc, account := newService()
		badges, err := svc.ListBadges(ctx, account.ID)
		require.NoError(t, err)
		require.NotEmpty(t, badges)

		ok, err := svc.UnlockBadge(ctx, account.ID, badges[0].ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.UnlockBadge(ctx, account.ID, badges[0].ID)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.Equal(t, service.BadgeXPReward, f.reload(t, account).XP)
	})

	t.Run("unknown badge", func(t *testing.T) {
		_, svc, account := newService()
		_, err := svc.UnlockBadge(ctx, account.ID, uuid.New())
		assert.ErrorIs(t, err, service.ErrBadgeNotFound)

		_, err = svc.UnlockBadgeByName(ctx, account.ID, "")
		assert.ErrorIs(t, err, service.ErrBadgeIdentifier)
	})
}

func TestGamificationService_BadgeSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	account := f.account(t, nil)

	badges := new(mocks.MockBadgeRepository)
	badges.On("ListByUserID", mock.Anything, account.ID).Return(entity.DefaultBadges(account.ID), nil)
	badges.On("SaveAll", mock.Anything, account.ID, mock.Anything).Return(errors.New("write refused"))
	svc := service.NewGamificationService(f.repos.Accounts, badges, f.clock, nop)

	unlocked, err := svc.UnlockBadgeByName(ctx, account.ID, service.BadgeFirstSteps)
	assert.False(t, unlocked)
	assert.Error(t, err)
	assert.Equal(t, account.XP, f.reload(t, account).XP)
	badges.AssertExpectations(t)
}

func TestGamificationService_ConcurrentXP(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := service.NewGamificationService(f.repos.Accounts, f.repos.Badges, f.clock, nop)
	account := f.account(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddXP(ctx, account.ID, 25)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, f.reload(t, account).XP)
}
