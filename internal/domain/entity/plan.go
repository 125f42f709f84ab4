package entity

import (
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// SubscriptionPlan is a static catalog entry. Popular is a display hint only.
type SubscriptionPlan struct {
	ID       valueobject.PlanID
	Name     string
	Price    valueobject.Money
	Period   valueobject.PlanPeriod
	Features []string
	Popular  bool
}

// IsRecurring returns true for monthly and yearly plans
func (p *SubscriptionPlan) IsRecurring() bool {
	return p.Period == valueobject.PeriodMonth || p.Period == valueobject.PeriodYear
}

// PurchaseResult is the normalized outcome of a purchase attempt
type PurchaseResult struct {
	Success   bool
	PlanID    valueobject.PlanID
	Error     string
	Retryable bool
	Receipt   string
}

// TrialStatus describes the trial window at a point in time
type TrialStatus struct {
	IsActive      bool
	DaysRemaining int
	HasExpired    bool
}
