package service

import (
	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// completeUpgradePrice is what an account holding basic ad removal pays for complete
var completeUpgradePrice = valueobject.MustUSD(4.99)

// Catalog is the static list of purchasable plans
type Catalog struct {
	plans []*entity.SubscriptionPlan
	byID  map[valueobject.PlanID]*entity.SubscriptionPlan
}

// NewCatalog builds the catalog
func NewCatalog() *Catalog {
	plans := []*entity.SubscriptionPlan{
		{
			ID:    valueobject.PlanFree,
			Name:  "Free",
			Price: valueobject.MustUSD(0),
			Features: []string{
				"10 active tasks",
				"7 days task history",
				"Basic habits tracking",
				"Banner ads (after trial)",
				"Interstitial ads (after trial)",
			},
		},
		{
			ID:     valueobject.PlanPremiumMonthly,
			Name:   "Premium Monthly",
			Price:  valueobject.MustUSD(0.99),
			Period: valueobject.PeriodMonth,
			Features: []string{
				"Unlimited tasks & habits",
				"Full tracking history",
				"Pomodoro timer",
				"AI calendar integration",
				"Advanced analytics",
				"Data export (CSV/PDF)",
				"Priority support",
				"Custom themes",
				"Streak corrections",
				"Advanced gamification",
				"Smart scheduling",
				"Habit templates",
			},
		},
		{
			ID:      valueobject.PlanPremiumAnnual,
			Name:    "Premium Annual",
			Price:   valueobject.MustUSD(9.99),
			Period:  valueobject.PeriodYear,
			Popular: true,
			Features: []string{
				"All Premium Monthly features",
				"Save 17% vs monthly",
				"Priority customer support",
			},
		},
		{
			ID:     valueobject.PlanAdRemovalBasic,
			Name:   "Ad-Free Basic",
			Price:  valueobject.MustUSD(4.99),
			Period: valueobject.PeriodOneTime,
			Features: []string{
				"Remove banner ads",
				"Interstitial ads still shown",
			},
		},
		{
			ID:     valueobject.PlanAdRemovalComplete,
			Name:   "Ad-Free Complete",
			Price:  valueobject.MustUSD(9.99),
			Period: valueobject.PeriodOneTime,
			Features: []string{
				"Remove all ads",
				"No banner ads",
				"No interstitial ads",
			},
		},
	}

	byID := make(map[valueobject.PlanID]*entity.SubscriptionPlan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}
	return &Catalog{plans: plans, byID: byID}
}

// Plans returns the plans in display order
func (c *Catalog) Plans() []entity.SubscriptionPlan {
	out := make([]entity.SubscriptionPlan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, *p)
	}
	return out
}

// Plan returns a single plan
func (c *Catalog) Plan(id valueobject.PlanID) (*entity.SubscriptionPlan, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, domainErrors.ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

// AdjustedPrice returns the price the account would pay for the plan.
// Upgrading from basic to complete ad removal costs a flat reduced price.
func (c *Catalog) AdjustedPrice(id valueobject.PlanID, account *entity.UserAccount) (valueobject.Money, error) {
	p, ok := c.byID[id]
	if !ok {
		return valueobject.Money{}, domainErrors.ErrPlanNotFound
	}
	if id == valueobject.PlanAdRemovalComplete && account != nil && account.AdRemoval == valueobject.AdRemovalBasic {
		return completeUpgradePrice, nil
	}
	return p.Price, nil
}
