package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/tests/mocks"
	"github.com/bivex/habitpass/tests/testutil"
)

func TestHabitService_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := service.NewHabitService(f.repos.Habits, f.repos.GraceDays, f.clock, nop)
	account := f.account(t, nil)

	t.Run("create defaults to daily", func(t *testing.T) {
		h, err := svc.CreateHabit(ctx, account.ID, service.HabitInput{Title: "Read", XPReward: 5})
		require.NoError(t, err)
		assert.Equal(t, entity.FrequencyDaily, h.Frequency.Type)
		assert.Equal(t, 0, h.Streak())
	})

	t.Run("create validates input", func(t *testing.T) {
		_, err := svc.CreateHabit(ctx, account.ID, service.HabitInput{})
		assert.ErrorIs(t, err, service.ErrEmptyTitle)

		_, err = svc.CreateHabit(ctx, account.ID, service.HabitInput{Title: "x", XPReward: -1})
		assert.ErrorIs(t, err, service.ErrNegativeXP)

		_, err = svc.CreateHabit(ctx, account.ID, service.HabitInput{
			Title:     "x",
			Frequency: entity.Frequency{Type: entity.FrequencyWeekly, Days: []int{7}},
		})
		assert.ErrorIs(t, err, entity.ErrInvalidFrequency)
	})

	t.Run("update changes only given fields", func(t *testing.T) {
		h, err := svc.CreateHabit(ctx, account.ID, service.HabitInput{Title: "Run", Description: "5k"})
		require.NoError(t, err)

		title := "Run far"
		updated, err := svc.UpdateHabit(ctx, account.ID, h.ID, service.HabitUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Run far", updated.Title)
		assert.Equal(t, "5k", updated.Description)

		empty := ""
		_, err = svc.UpdateHabit(ctx, account.ID, h.ID, service.HabitUpdate{Title: &empty})
		assert.ErrorIs(t, err, service.ErrEmptyTitle)
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		h, err := svc.CreateHabit(ctx, account.ID, service.HabitInput{Title: "Stretch"})
		require.NoError(t, err)
		require.NoError(t, svc.DeleteHabit(ctx, account.ID, h.ID))

		_, err = svc.GetHabit(ctx, account.ID, h.ID)
		assert.True(t, domainErrors.IsNotFound(err))
	})

	t.Run("habits are scoped to their owner", func(t *testing.T) {
		h, err := svc.CreateHabit(ctx, account.ID, service.HabitInput{Title: "Mine"})
		require.NoError(t, err)

		_, err = svc.GetHabit(ctx, uuid.New(), h.ID)
		assert.Error(t, err)
	})
}

func TestHabitService_Streaks(t *testing.T) {
	ctx := context.Background()
	today := valueobject.DayOf(start)

	t.Run("consecutive days grow the streak", func(t *testing.T) {
		f := newFixture()
		svc := service.NewHabitService(f.repos.Habits, f.repos.GraceDays, f.clock, nop)
		account := f.account(t, nil)
		habit := f.habit(t, account)

		for i := 2; i >= 0; i-- {
			_, err := svc.MarkComplete(ctx, account.ID, habit.ID, today.AddDays(-i))
			require.NoError(t, err)
		}
		h, err := svc.GetHabit(ctx, account.ID, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, h.Streak())
	})

	t.Run("completing twice is idempotent", func(t *testing.T) {
		f := newFixture()
		svc := service.NewHabitService(f.repos.Habits, f.repos.GraceDays, f.clock, nop)
		account := f.account(t, nil)
		habit := f.habit(t, account)

		_, err := svc.MarkComplete(ctx, account.ID, habit.ID, today)
		require.NoError(t, err)
		h, err := svc.MarkComplete(ctx, account.ID, habit.ID, today)
		require.NoError(t, err)
		assert.Equal(t, 1, h.Streak())
		assert.Len(t, h.CompletionHistory, 1)
	})

	t.Run("future day is rejected", func(t *testing.T) {
		f := newFixture()
		svc := service.NewHabitService(f.repos.Habits, f.repos.GraceDays, f.clock, nop)
		account := f.account(t, nil)
		habit := f.habit(t, account)

		_, err := svc.MarkComplete(ctx, account.ID, habit.ID, today.AddDays(1))
		assert.ErrorIs(t, err, service.ErrFutureDay)
	})

	t.Run("grace day bridges a missed day", func(t *testing.T) {
		f := newFixture()
		svc := service.NewHabitService(f.repos.Habits, f.repos.GraceDays, f.clock, nop)
		graceDays := newGraceDayService(f)
		account := f.account(t, nil)
		habit := f.habit(t, account)

		_, err := svc.MarkComplete(ctx, account.ID, habit.ID, today.AddDays(-2))
		require.NoError(t, err)
		_, err = graceDays.ApplyGraceDay(ctx, account.ID, habit.ID, today.AddDays(-1), valueobject.GraceDayManual)
		require.NoError(t, err)

		h, err := svc.MarkComplete(ctx, account.ID, habit.ID, today)
		require.NoError(t, err)
		assert.Equal(t, 3, h.Streak())
	})

	t.Run("reconcile extends a streak after a late grace day", func(t *testing.T) {
		f := newFixture()
		svc := service.NewHabitService(f.repos.Habits, f.repos.GraceDays, f.clock, nop)
		graceDays := newGraceDayService(f)
		account := f.account(t, nil)
		habit := f.habit(t, account)

		_, err := svc.MarkComplete(ctx, account.ID, habit.ID, today.AddDays(-3))
		require.NoError(t, err)
		h, err := svc.MarkComplete(ctx, account.ID, habit.ID, today.AddDays(-1))
		require.NoError(t, err)
		require.Equal(t, 1, h.Streak())

		_, err = graceDays.ApplyGraceDay(ctx, account.ID, habit.ID, today.AddDays(-2), valueobject.GraceDayManual)
		require.NoError(t, err)

		n, err := svc.ReconcileStreaks(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		h, err = svc.GetHabit(ctx, account.ID, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, h.Streak())

		n, err = svc.ReconcileStreaks(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("mark incomplete on a fresh day zeroes the streak", func(t *testing.T) {
		f := newFixture()
		svc := service.NewHabitService(f.repos.Habits, f.repos.GraceDays, f.clock, nop)
		account := f.account(t, nil)
		habit := f.habit(t, account)

		_, err := svc.MarkComplete(ctx, account.ID, habit.ID, today.AddDays(-1))
		require.NoError(t, err)
		h, err := svc.MarkIncomplete(ctx, account.ID, habit.ID, today)
		require.NoError(t, err)
		assert.Equal(t, 0, h.Streak())
	})
}

func TestHabitService_Rewards(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	gamification := service.NewGamificationService(f.repos.Accounts, f.repos.Badges, f.clock, nop)
	svc := service.NewHabitService(f.repos.Habits, f.repos.GraceDays, f.clock, nop).WithRewarder(gamification)
	account := f.account(t, nil)
	require.NoError(t, f.repos.Badges.SaveAll(ctx, account.ID, entity.DefaultBadges(account.ID)))
	habit := f.habit(t, account)

	_, err := svc.MarkComplete(ctx, account.ID, habit.ID, valueobject.Day{})
	require.NoError(t, err)

	after := f.reload(t, account)
	// habit reward plus the First Steps badge
	assert.Equal(t, habit.XPReward+service.BadgeXPReward, after.XP)

	badges, err := gamification.ListBadges(ctx, account.ID)
	require.NoError(t, err)
	for _, b := range badges {
		assert.Equal(t, b.Name == service.BadgeFirstSteps, b.IsUnlocked(), b.Name)
	}
}

type rewardRecorder struct {
	xp     int
	badges []string
}

func (r *rewardRecorder) AddXP(_ context.Context, _ uuid.UUID, amount int) (*entity.UserAccount, error) {
	r.xp += amount
	return nil, nil
}

func (r *rewardRecorder) UnlockBadgeByName(_ context.Context, _ uuid.UUID, name string) (bool, error) {
	r.badges = append(r.badges, name)
	return true, nil
}

func TestHabitService_SaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	account := f.account(t, nil)
	habit := testutil.NewHabitFactory().CreateDaily(account.ID, start)

	habits := new(mocks.MockHabitRepository)
	habits.On("GetByID", mock.Anything, account.ID, habit.ID).Return(habit, nil)
	habits.On("Update", mock.Anything, habit).Return(errors.New("write refused"))
	rewards := &rewardRecorder{}
	svc := service.NewHabitService(habits, f.repos.GraceDays, f.clock, nop).WithRewarder(rewards)

	got, err := svc.MarkComplete(ctx, account.ID, habit.ID, valueobject.Day{})
	assert.Nil(t, got)
	assert.Error(t, err)
	assert.Zero(t, rewards.xp)
	assert.Empty(t, rewards.badges)
	habits.AssertExpectations(t)
}
