package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/valueobject"
)

const (
	// TrialDuration is the length of the all-features trial granted at sign-up
	TrialDuration = 14 * 24 * time.Hour

	// MaxGraceDaysEarned caps grace days bought with XP
	MaxGraceDaysEarned = 3

	defaultStreakCorrections = 3
	defaultXPToNextLevel     = 100
)

var (
	ErrInsufficientXP          = errors.New("insufficient xp")
	ErrInsufficientCurrency    = errors.New("insufficient currency")
	ErrGraceDayCapExceeded     = errors.New("earned grace day cap exceeded")
	ErrNoStreakCorrections     = errors.New("no streak corrections left")
	ErrUnsupportedPlanTransfer = errors.New("plan has no account transition")
)

// UserAccount holds identity, progression and entitlement state for one user
type UserAccount struct {
	ID                uuid.UUID
	Email             string
	Name              string
	XP                int
	Level             int
	XPToNextLevel     int
	Currency          int
	Premium           bool
	PremiumType       valueobject.PremiumType
	AdRemoval         valueobject.AdRemovalTier
	TrialStartDate    time.Time
	TrialEndDate      time.Time
	LastAdShown       *time.Time
	GraceDaysEarned   int
	StreakCorrections int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewUserAccount creates an account whose trial window starts at now
func NewUserAccount(email, name string, now time.Time) *UserAccount {
	return &UserAccount{
		ID:                uuid.New(),
		Email:             email,
		Name:              name,
		Level:             1,
		XPToNextLevel:     defaultXPToNextLevel,
		AdRemoval:         valueobject.AdRemovalNone,
		TrialStartDate:    now,
		TrialEndDate:      now.Add(TrialDuration),
		StreakCorrections: defaultStreakCorrections,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Clone returns a deep copy so a mutation can be discarded if persisting it fails
func (a *UserAccount) Clone() *UserAccount {
	c := *a
	if a.LastAdShown != nil {
		t := *a.LastAdShown
		c.LastAdShown = &t
	}
	return &c
}

// ApplyPlan applies the account transition for a purchased plan.
// Premium purchases never touch AdRemoval, and basic never downgrades complete.
func (a *UserAccount) ApplyPlan(plan valueobject.PlanID, now time.Time) error {
	switch plan {
	case valueobject.PlanPremiumMonthly:
		a.Premium = true
		a.PremiumType = valueobject.PremiumMonthly
	case valueobject.PlanPremiumAnnual:
		a.Premium = true
		a.PremiumType = valueobject.PremiumAnnual
	case valueobject.PlanAdRemovalBasic:
		if a.AdRemoval != valueobject.AdRemovalComplete {
			a.AdRemoval = valueobject.AdRemovalBasic
		}
	case valueobject.PlanAdRemovalComplete:
		a.AdRemoval = valueobject.AdRemovalComplete
	case valueobject.PlanFree:
		return nil
	default:
		return ErrUnsupportedPlanTransfer
	}
	a.UpdatedAt = now
	return nil
}

// SpendXPForGraceDays converts xp into earned grace days; nothing changes on error
func (a *UserAccount) SpendXPForGraceDays(count, xpPerDay int, now time.Time) error {
	cost := count * xpPerDay
	if a.XP < cost {
		return ErrInsufficientXP
	}
	if a.GraceDaysEarned+count > MaxGraceDaysEarned {
		return ErrGraceDayCapExceeded
	}
	a.XP -= cost
	a.GraceDaysEarned += count
	a.UpdatedAt = now
	return nil
}

// MarkAdShown records the time an interstitial was actually displayed
func (a *UserAccount) MarkAdShown(now time.Time) {
	t := now
	a.LastAdShown = &t
	a.UpdatedAt = now
}

// SpendCurrency deducts from the currency balance
func (a *UserAccount) SpendCurrency(amount int, now time.Time) error {
	if a.Currency < amount {
		return ErrInsufficientCurrency
	}
	a.Currency -= amount
	a.UpdatedAt = now
	return nil
}

// UseStreakCorrection spends one streak-repair token
func (a *UserAccount) UseStreakCorrection(now time.Time) error {
	if a.StreakCorrections <= 0 {
		return ErrNoStreakCorrections
	}
	a.StreakCorrections--
	a.UpdatedAt = now
	return nil
}

// levelThresholds[i] is the total XP needed to reach level i+1
var levelThresholds = []int{0, 100, 250, 500, 1000, 2000, 3500, 5000, 7500, 10000}

// LevelForXP returns the level for a total XP and the XP still needed for the next one.
// At the top level the remainder is 0.
func LevelForXP(xp int) (level, toNext int) {
	level = 1
	for i, required := range levelThresholds {
		if xp >= required {
			level = i + 1
		}
	}
	if level == len(levelThresholds) {
		return level, 0
	}
	return level, levelThresholds[level] - xp
}

// AddXP grants xp and recomputes the level. It reports whether the level went up.
func (a *UserAccount) AddXP(amount int, now time.Time) bool {
	before := a.Level
	a.XP += amount
	a.Level, a.XPToNextLevel = LevelForXP(a.XP)
	a.UpdatedAt = now
	return a.Level > before
}

// AddCurrency credits the currency balance
func (a *UserAccount) AddCurrency(amount int, now time.Time) {
	a.Currency += amount
	a.UpdatedAt = now
}

// AddStreakCorrection grants one streak-repair token
func (a *UserAccount) AddStreakCorrection(now time.Time) {
	a.StreakCorrections++
	a.UpdatedAt = now
}
