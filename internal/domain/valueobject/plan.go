package valueobject

import (
	"errors"
)

var (
	ErrInvalidPlanID = errors.New("invalid plan id")
)

// PlanID identifies a catalog plan
type PlanID string

const (
	PlanFree              PlanID = "free"
	PlanPremiumMonthly    PlanID = "premium-monthly"
	PlanPremiumAnnual     PlanID = "premium-annual"
	PlanAdRemovalBasic    PlanID = "ad-removal-basic"
	PlanAdRemovalComplete PlanID = "ad-removal-complete"
)

func (p PlanID) String() string {
	return string(p)
}

// PlanPeriod is the billing period of a plan
type PlanPeriod string

const (
	PeriodNone    PlanPeriod = ""
	PeriodMonth   PlanPeriod = "month"
	PeriodYear    PlanPeriod = "year"
	PeriodOneTime PlanPeriod = "one-time"
)

// GraceDayType is the kind of grace-day ledger entry
type GraceDayType string

const (
	GraceDayManual         GraceDayType = "manual"
	GraceDayXPPurchase     GraceDayType = "xp-purchase"
	GraceDaySkipConversion GraceDayType = "skip-conversion"
)

var ErrInvalidGraceDayType = errors.New("invalid grace day type")

// NewGraceDayType parses a ledger entry type; empty defaults to manual
func NewGraceDayType(t string) (GraceDayType, error) {
	gt := GraceDayType(t)
	switch gt {
	case "":
		return GraceDayManual, nil
	case GraceDayManual, GraceDayXPPurchase, GraceDaySkipConversion:
		return gt, nil
	default:
		return "", ErrInvalidGraceDayType
	}
}

// CountsAgainstQuota reports whether entries of this type consume the monthly allotment
func (t GraceDayType) CountsAgainstQuota() bool {
	return t == GraceDayManual
}
