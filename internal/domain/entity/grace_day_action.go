package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// GraceDayAction is an immutable grace-day ledger entry
type GraceDayAction struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Type       valueobject.GraceDayType
	Date       time.Time
	HabitID    *uuid.UUID
	CoveredDay *valueobject.Day
	XPCost     *int
}

// NewGraceDayUse creates a manual or skip-conversion entry covering a missed day.
// A zero coveredDay defaults to the day before now.
func NewGraceDayUse(userID, habitID uuid.UUID, coveredDay valueobject.Day, t valueobject.GraceDayType, now time.Time) *GraceDayAction {
	if coveredDay.IsZero() {
		coveredDay = valueobject.DayOf(now).AddDays(-1)
	}
	hid := habitID
	return &GraceDayAction{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       t,
		Date:       now,
		HabitID:    &hid,
		CoveredDay: &coveredDay,
	}
}

// NewGraceDayPurchase creates an xp-purchase entry
func NewGraceDayPurchase(userID uuid.UUID, xpCost int, now time.Time) *GraceDayAction {
	cost := xpCost
	return &GraceDayAction{
		ID:     uuid.New(),
		UserID: userID,
		Type:   valueobject.GraceDayXPPurchase,
		Date:   now,
		XPCost: &cost,
	}
}

// CountsAgainstMonth reports whether the entry consumes the allotment of now's month
func (g *GraceDayAction) CountsAgainstMonth(now time.Time) bool {
	return g.Type.CountsAgainstQuota() &&
		g.Date.Year() == now.Year() &&
		g.Date.Month() == now.Month()
}

// Covers reports whether this entry bridges day for habitID
func (g *GraceDayAction) Covers(habitID uuid.UUID) bool {
	if g.HabitID == nil || g.CoveredDay == nil {
		return false
	}
	return *g.HabitID == habitID
}
