package dto

import (
	"time"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// FromAccount maps an account to its response
func FromAccount(a *entity.UserAccount) *AccountResponse {
	return &AccountResponse{
		ID:                a.ID.String(),
		Email:             a.Email,
		Name:              a.Name,
		XP:                a.XP,
		Level:             a.Level,
		XPToNextLevel:     a.XPToNextLevel,
		Currency:          a.Currency,
		Premium:           a.Premium,
		PremiumType:       a.PremiumType.String(),
		AdRemoval:         a.AdRemoval.String(),
		TrialStartDate:    formatTime(a.TrialStartDate),
		TrialEndDate:      formatTime(a.TrialEndDate),
		LastAdShown:       formatTimePtr(a.LastAdShown),
		GraceDaysEarned:   a.GraceDaysEarned,
		StreakCorrections: a.StreakCorrections,
	}
}

// FromBadges maps badges in display order
func FromBadges(badges []*entity.Badge) []BadgeResponse {
	out := make([]BadgeResponse, 0, len(badges))
	for _, b := range badges {
		out = append(out, BadgeResponse{
			ID:          b.ID.String(),
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			UnlockedAt:  formatTimePtr(b.UnlockedAt),
		})
	}
	return out
}

// FromEntitlements maps an entitlement snapshot
func FromEntitlements(e *service.Entitlements) *EntitlementsResponse {
	locked := e.LockedFeatures
	if locked == nil {
		locked = []string{}
	}
	return &EntitlementsResponse{
		Trial: TrialStatusResponse{
			IsActive:      e.Trial.IsActive,
			DaysRemaining: e.Trial.DaysRemaining,
			HasExpired:    e.Trial.HasExpired,
		},
		Premium:             e.Premium,
		TaskLimit:           e.TaskLimit,
		HistoryLimit:        e.HistoryLimit,
		LockedFeatures:      locked,
		CanShowInterstitial: e.CanShowInterstitial,
		ShowBanner:          e.ShowBanner,
	}
}

// FromPurchaseResult maps a purchase outcome
func FromPurchaseResult(r entity.PurchaseResult) *PurchaseResponse {
	return &PurchaseResponse{
		Success:   r.Success,
		PlanID:    r.PlanID.String(),
		Error:     r.Error,
		Retryable: r.Retryable,
		Receipt:   r.Receipt,
	}
}

// FromGraceDayActions maps ledger entries in append order
func FromGraceDayActions(actions []*entity.GraceDayAction) []GraceDayActionResponse {
	out := make([]GraceDayActionResponse, 0, len(actions))
	for _, a := range actions {
		item := GraceDayActionResponse{
			ID:     a.ID.String(),
			Type:   string(a.Type),
			Date:   formatTime(a.Date),
			XPCost: a.XPCost,
		}
		if a.HabitID != nil {
			id := a.HabitID.String()
			item.HabitID = &id
		}
		if a.CoveredDay != nil {
			day := a.CoveredDay.String()
			item.CoveredDay = &day
		}
		out = append(out, item)
	}
	return out
}

// ToFrequency converts a schedule; nil means daily
func ToFrequency(f *FrequencyDTO) entity.Frequency {
	if f == nil {
		return entity.Frequency{Type: entity.FrequencyDaily}
	}
	return entity.Frequency{
		Type:     entity.FrequencyType(f.Type),
		Days:     f.Days,
		Dates:    f.Dates,
		Interval: f.Interval,
	}
}

// FromHabit maps a habit with its cached streak
func FromHabit(h *entity.Habit) *HabitResponse {
	history := make([]CompletionDTO, 0, len(h.CompletionHistory))
	for _, rec := range h.CompletionHistory {
		history = append(history, CompletionDTO{Date: rec.Date.String(), Completed: rec.Completed})
	}
	tags := h.Tags
	if tags == nil {
		tags = []string{}
	}
	return &HabitResponse{
		ID:          h.ID.String(),
		Title:       h.Title,
		Description: h.Description,
		Frequency: FrequencyDTO{
			Type:     string(h.Frequency.Type),
			Days:     h.Frequency.Days,
			Dates:    h.Frequency.Dates,
			Interval: h.Frequency.Interval,
		},
		TimeOfDay:         h.TimeOfDay,
		Tags:              tags,
		XPReward:          h.XPReward,
		Streak:            h.Streak(),
		CompletionHistory: history,
		CreatedAt:         formatTime(h.CreatedAt),
		UpdatedAt:         formatTime(h.UpdatedAt),
	}
}

// FromHabits maps a habit list
func FromHabits(habits []*entity.Habit) []*HabitResponse {
	out := make([]*HabitResponse, 0, len(habits))
	for _, h := range habits {
		out = append(out, FromHabit(h))
	}
	return out
}
