package kv

import (
	"time"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

func userKey(id uuid.UUID) string { return "user_" + id.String() }
func emailKey(email string) string { return "email_" + email }
func habitsKey(userID uuid.UUID) string { return "habits_" + userID.String() }
func ledgerKey(userID uuid.UUID) string { return "graceDayActions_" + userID.String() }
func badgesKey(userID uuid.UUID) string { return "badges_" + userID.String() }
func transactionsKey(userID uuid.UUID) string { return "transactions_" + userID.String() }
func receiptKey(hash string) string { return "receipt_" + hash }

const accountsIndexKey = "accounts_index"

// Dates are stored as RFC 3339 timestamps and days as YYYY-MM-DD

type accountDoc struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	XP                int        `json:"xp"`
	Level             int        `json:"level"`
	XPToNextLevel     int        `json:"xpToNextLevel"`
	Currency          int        `json:"currency"`
	Premium           bool       `json:"premium"`
	PremiumType       string     `json:"premiumType,omitempty"`
	AdRemoval         string     `json:"adRemoval,omitempty"`
	TrialStartDate    time.Time  `json:"trialStartDate"`
	TrialEndDate      time.Time  `json:"trialEndDate"`
	LastAdShown       *time.Time `json:"lastAdShown,omitempty"`
	GraceDaysEarned   int        `json:"graceDaysEarned"`
	StreakCorrections int        `json:"streakCorrections"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func toAccountDoc(a *entity.UserAccount) accountDoc {
	return accountDoc{
		ID:                a.ID,
		Email:             a.Email,
		Name:              a.Name,
		XP:                a.XP,
		Level:             a.Level,
		XPToNextLevel:     a.XPToNextLevel,
		Currency:          a.Currency,
		Premium:           a.Premium,
		PremiumType:       string(a.PremiumType),
		AdRemoval:         string(a.AdRemoval),
		TrialStartDate:    a.TrialStartDate,
		TrialEndDate:      a.TrialEndDate,
		LastAdShown:       a.LastAdShown,
		GraceDaysEarned:   a.GraceDaysEarned,
		StreakCorrections: a.StreakCorrections,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func (d accountDoc) toEntity() (*entity.UserAccount, error) {
	premiumType, err := valueobject.NewPremiumType(d.PremiumType)
	if err != nil {
		return nil, err
	}
	adRemoval, err := valueobject.NewAdRemovalTier(d.AdRemoval)
	if err != nil {
		return nil, err
	}
	return &entity.UserAccount{
		ID:                d.ID,
		Email:             d.Email,
		Name:              d.Name,
		XP:                d.XP,
		Level:             d.Level,
		XPToNextLevel:     d.XPToNextLevel,
		Currency:          d.Currency,
		Premium:           d.Premium,
		PremiumType:       premiumType,
		AdRemoval:         adRemoval,
		TrialStartDate:    d.TrialStartDate,
		TrialEndDate:      d.TrialEndDate,
		LastAdShown:       d.LastAdShown,
		GraceDaysEarned:   d.GraceDaysEarned,
		StreakCorrections: d.StreakCorrections,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}

type frequencyDoc struct {
	Type     string `json:"type"`
	Days     []int  `json:"days,omitempty"`
	Dates    []int  `json:"dates,omitempty"`
	Interval int    `json:"interval,omitempty"`
}

type completionDoc struct {
	Date      valueobject.Day `json:"date"`
	Completed bool            `json:"completed"`
}

type habitDoc struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"userId"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Frequency         frequencyDoc    `json:"frequency"`
	TimeOfDay         string          `json:"timeOfDay,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	XPReward          int             `json:"xpReward"`
	Streak            int             `json:"streak"`
	CompletionHistory []completionDoc `json:"completionHistory"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func toHabitDoc(h *entity.Habit) habitDoc {
	history := make([]completionDoc, 0, len(h.CompletionHistory))
	for _, r := range h.CompletionHistory {
		history = append(history, completionDoc{Date: r.Date, Completed: r.Completed})
	}
	return habitDoc{
		ID:          h.ID,
		UserID:      h.UserID,
		Title:       h.Title,
		Description: h.Description,
		Frequency: frequencyDoc{
			Type:     string(h.Frequency.Type),
			Days:     h.Frequency.Days,
			Dates:    h.Frequency.Dates,
			Interval: h.Frequency.Interval,
		},
		TimeOfDay:         h.TimeOfDay,
		Tags:              h.Tags,
		XPReward:          h.XPReward,
		Streak:            h.Streak(),
		CompletionHistory: history,
		CreatedAt:         h.CreatedAt,
		UpdatedAt:         h.UpdatedAt,
	}
}

func (d habitDoc) toEntity() *entity.Habit {
	history := make([]entity.CompletionRecord, 0, len(d.CompletionHistory))
	for _, r := range d.CompletionHistory {
		history = append(history, entity.CompletionRecord{Date: r.Date, Completed: r.Completed})
	}
	return entity.RestoreHabit(entity.Habit{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Frequency: entity.Frequency{
			Type:     entity.FrequencyType(d.Frequency.Type),
			Days:     d.Frequency.Days,
			Dates:    d.Frequency.Dates,
			Interval: d.Frequency.Interval,
		},
		TimeOfDay:         d.TimeOfDay,
		Tags:              d.Tags,
		XPReward:          d.XPReward,
		CompletionHistory: history,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, d.Streak)
}

type graceDayDoc struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"userId"`
	Type       string           `json:"type"`
	Date       time.Time        `json:"date"`
	HabitID    *uuid.UUID       `json:"habitId,omitempty"`
	CoveredDay *valueobject.Day `json:"coveredDay,omitempty"`
	XPCost     *int             `json:"xpCost,omitempty"`
}

func toGraceDayDoc(a *entity.GraceDayAction) graceDayDoc {
	return graceDayDoc{
		ID:         a.ID,
		UserID:     a.UserID,
		Type:       string(a.Type),
		Date:       a.Date,
		HabitID:    a.HabitID,
		CoveredDay: a.CoveredDay,
		XPCost:     a.XPCost,
	}
}

func (d graceDayDoc) toEntity() (*entity.GraceDayAction, error) {
	t, err := valueobject.NewGraceDayType(d.Type)
	if err != nil {
		return nil, err
	}
	return &entity.GraceDayAction{
		ID:         d.ID,
		UserID:     d.UserID,
		Type:       t,
		Date:       d.Date,
		HabitID:    d.HabitID,
		CoveredDay: d.CoveredDay,
		XPCost:     d.XPCost,
	}, nil
}

type badgeDoc struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

type transactionDoc struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	PlanID       string    `json:"planId"`
	AmountCents  int64     `json:"amountCents"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	Provider     string    `json:"provider"`
	ReceiptHash  string    `json:"receiptHash,omitempty"`
	ProviderTxID string    `json:"providerTxId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
