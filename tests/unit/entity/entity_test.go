package entity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

var now = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestNewUserAccount(t *testing.T) {
	account := entity.NewUserAccount("test@example.com", "Test", now)

	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, 1, account.Level)
	assert.Equal(t, 100, account.XPToNextLevel)
	assert.Equal(t, 3, account.StreakCorrections)
	assert.Equal(t, valueobject.AdRemovalNone, account.AdRemoval)
	assert.False(t, account.Premium)
	assert.Equal(t, now, account.TrialStartDate)
	assert.Equal(t, now.Add(14*24*time.Hour), account.TrialEndDate)
	assert.Nil(t, account.LastAdShown)
}

func TestUserAccount_Clone(t *testing.T) {
	account := entity.NewUserAccount("test@example.com", "Test", now)
	account.MarkAdShown(now)

	clone := account.Clone()
	clone.XP = 500
	*clone.LastAdShown = now.Add(time.Hour)

	assert.Equal(t, 0, account.XP)
	assert.Equal(t, now, *account.LastAdShown)
}

func TestUserAccount_ApplyPlan(t *testing.T) {
	t.Run("unsupported plan", func(t *testing.T) {
		account := entity.NewUserAccount("test@example.com", "Test", now)
		assert.ErrorIs(t, account.ApplyPlan("lifetime", now), entity.ErrUnsupportedPlanTransfer)
	})

	t.Run("upgrade from basic to complete", func(t *testing.T) {
		account := entity.NewUserAccount("test@example.com", "Test", now)
		require.NoError(t, account.ApplyPlan(valueobject.PlanAdRemovalBasic, now))
		require.NoError(t, account.ApplyPlan(valueobject.PlanAdRemovalComplete, now))
		assert.Equal(t, valueobject.AdRemovalComplete, account.AdRemoval)
		assert.False(t, account.Premium)
	})

	t.Run("annual after monthly switches type", func(t *testing.T) {
		account := entity.NewUserAccount("test@example.com", "Test", now)
		require.NoError(t, account.ApplyPlan(valueobject.PlanPremiumMonthly, now))
		require.NoError(t, account.ApplyPlan(valueobject.PlanPremiumAnnual, now))
		assert.Equal(t, valueobject.PremiumAnnual, account.PremiumType)
	})
}

func TestUserAccount_SpendXPForGraceDays(t *testing.T) {
	tests := []struct {
		name    string
		xp      int
		earned  int
		count   int
		wantErr error
		wantXP  int
	}{
		{"enough xp", 250, 0, 2, nil, 50},
		{"exact xp", 300, 0, 3, nil, 0},
		{"not enough xp", 150, 0, 2, entity.ErrInsufficientXP, 150},
		{"over the cap", 1000, 2, 2, entity.ErrGraceDayCapExceeded, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := entity.NewUserAccount("test@example.com", "Test", now)
			account.XP = tt.xp
			account.GraceDaysEarned = tt.earned

			err := account.SpendXPForGraceDays(tt.count, 100, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.earned, account.GraceDaysEarned)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.earned+tt.count, account.GraceDaysEarned)
			}
			assert.Equal(t, tt.wantXP, account.XP)
		})
	}
}

func TestGraceDayAction(t *testing.T) {
	userID, habitID := uuid.New(), uuid.New()

	t.Run("zero covered day means yesterday", func(t *testing.T) {
		a := entity.NewGraceDayUse(userID, habitID, valueobject.Day{}, valueobject.GraceDayManual, now)
		require.NotNil(t, a.CoveredDay)
		assert.Equal(t, valueobject.NewDay(2024, time.March, 9), *a.CoveredDay)
		assert.True(t, a.Covers(habitID))
		assert.False(t, a.Covers(uuid.New()))
	})

	t.Run("only manual uses in the month count", func(t *testing.T) {
		manual := entity.NewGraceDayUse(userID, habitID, valueobject.Day{}, valueobject.GraceDayManual, now)
		skip := entity.NewGraceDayUse(userID, habitID, valueobject.Day{}, valueobject.GraceDaySkipConversion, now)
		purchase := entity.NewGraceDayPurchase(userID, 200, now)

		assert.True(t, manual.CountsAgainstMonth(now))
		assert.False(t, manual.CountsAgainstMonth(now.AddDate(0, 1, 0)))
		assert.False(t, skip.CountsAgainstMonth(now))
		assert.False(t, purchase.CountsAgainstMonth(now))
		assert.False(t, purchase.Covers(habitID))
	})
}

func TestBadge_Unlock(t *testing.T) {
	badges := entity.DefaultBadges(uuid.New())
	require.Len(t, badges, 5)

	b := badges[0]
	assert.False(t, b.IsUnlocked())
	assert.True(t, b.Unlock(now))
	assert.False(t, b.Unlock(now.Add(time.Hour)))
	assert.Equal(t, now, *b.UnlockedAt)
}
