package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// AccountFactory creates test account entities
type AccountFactory struct{}

func NewAccountFactory() *AccountFactory {
	return &AccountFactory{}
}

// Create returns an account whose trial started at now
func (f *AccountFactory) Create(now time.Time) *entity.UserAccount {
	return entity.NewUserAccount("test_"+uuid.New().String()[:8]+"@example.com", "Test User", now)
}

// CreateWithTrialStartedAgo returns an account whose trial started age before now
func (f *AccountFactory) CreateWithTrialStartedAgo(now time.Time, age time.Duration) *entity.UserAccount {
	account := f.Create(now.Add(-age))
	account.UpdatedAt = now
	return account
}

// CreatePremium returns an account on the given premium plan
func (f *AccountFactory) CreatePremium(now time.Time, plan valueobject.PlanID) *entity.UserAccount {
	account := f.Create(now)
	if err := account.ApplyPlan(plan, now); err != nil {
		panic(err)
	}
	return account
}

// CreateWithXP returns an account holding xp
func (f *AccountFactory) CreateWithXP(now time.Time, xp int) *entity.UserAccount {
	account := f.Create(now)
	account.XP = xp
	return account
}

// HabitFactory creates test habit entities
type HabitFactory struct{}

func NewHabitFactory() *HabitFactory {
	return &HabitFactory{}
}

// CreateDaily returns a daily habit worth 10 XP
func (f *HabitFactory) CreateDaily(userID uuid.UUID, now time.Time) *entity.Habit {
	return entity.NewHabit(userID, "Test habit "+uuid.New().String()[:8], entity.Frequency{Type: entity.FrequencyDaily}, 10, now)
}

// CreateWithHistory returns a daily habit whose history holds the given days as completed
func (f *HabitFactory) CreateWithHistory(userID uuid.UUID, now time.Time, completed ...valueobject.Day) *entity.Habit {
	h := f.CreateDaily(userID, now)
	for _, day := range completed {
		h.CompletionHistory = append(h.CompletionHistory, entity.CompletionRecord{Date: day, Completed: true})
	}
	return entity.RestoreHabit(*h, 0)
}
