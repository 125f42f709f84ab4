package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
)

const (
	// Unlimited is the sentinel returned by the limit functions; it is not a bound
	Unlimited = -1

	FreeTaskLimit   = 10
	FreeHistoryDays = 7

	dayLength = 24 * time.Hour
)

// Feature names gated for free accounts once the trial has ended
const (
	FeatureAICalendar        = "ai-calendar"
	FeatureDataExport        = "data-export"
	FeatureZapierIntegration = "zapier-integration"
	FeatureUnlimitedTasks    = "unlimited-tasks"
	FeatureFullHistory       = "full-history"
)

var restrictedFeatures = map[string]struct{}{
	FeatureAICalendar:        {},
	FeatureDataExport:        {},
	FeatureZapierIntegration: {},
	FeatureUnlimitedTasks:    {},
	FeatureFullHistory:       {},
}

// RestrictedFeatures lists the gated feature names
func RestrictedFeatures() []string {
	return []string{FeatureAICalendar, FeatureDataExport, FeatureZapierIntegration, FeatureUnlimitedTasks, FeatureFullHistory}
}

// TrialStatusAt computes the trial window state; days are rounded up
func TrialStatusAt(account *entity.UserAccount, now time.Time) entity.TrialStatus {
	daysRemaining := 0
	if remaining := account.TrialEndDate.Sub(now); remaining > 0 {
		daysRemaining = int((remaining + dayLength - 1) / dayLength)
	}
	return entity.TrialStatus{
		IsActive:      daysRemaining > 0,
		DaysRemaining: daysRemaining,
		HasExpired:    daysRemaining == 0,
	}
}

// hasFullAccess is true while the trial runs or the account is premium
func hasFullAccess(account *entity.UserAccount, now time.Time) bool {
	return account.Premium || TrialStatusAt(account, now).IsActive
}

// IsFeatureUnlockedAt gates only the restricted set; unknown names are unlocked
func IsFeatureUnlockedAt(account *entity.UserAccount, now time.Time, feature string) bool {
	if hasFullAccess(account, now) {
		return true
	}
	_, restricted := restrictedFeatures[feature]
	return !restricted
}

// TaskLimitAt returns Unlimited or the free-tier active task cap
func TaskLimitAt(account *entity.UserAccount, now time.Time) int {
	if hasFullAccess(account, now) {
		return Unlimited
	}
	return FreeTaskLimit
}

// HistoryLimitAt returns Unlimited or the free-tier history window in days
func HistoryLimitAt(account *entity.UserAccount, now time.Time) int {
	if hasFullAccess(account, now) {
		return Unlimited
	}
	return FreeHistoryDays
}

// Entitlements is everything the client needs to render gated UI, computed in one read
type Entitlements struct {
	Trial               entity.TrialStatus
	Premium             bool
	TaskLimit           int
	HistoryLimit        int
	LockedFeatures      []string
	CanShowInterstitial bool
	ShowBanner          bool
}

// EntitlementsAt evaluates all entitlement rules at now
func EntitlementsAt(account *entity.UserAccount, now time.Time) Entitlements {
	locked := []string{}
	for _, f := range RestrictedFeatures() {
		if !IsFeatureUnlockedAt(account, now, f) {
			locked = append(locked, f)
		}
	}
	return Entitlements{
		Trial:               TrialStatusAt(account, now),
		Premium:             account.Premium,
		TaskLimit:           TaskLimitAt(account, now),
		HistoryLimit:        HistoryLimitAt(account, now),
		LockedFeatures:      locked,
		CanShowInterstitial: CanShowInterstitialAt(account, now),
		ShowBanner:          ShouldShowBannerAt(account, now),
	}
}

// EntitlementService evaluates entitlements for stored accounts.
// Nothing it computes is persisted.
type EntitlementService struct {
	accounts repository.AccountRepository
	clock    Clock
}

// NewEntitlementService creates a new entitlement service
func NewEntitlementService(accounts repository.AccountRepository, clock Clock) *EntitlementService {
	return &EntitlementService{
		accounts: accounts,
		clock:    clock,
	}
}

func (s *EntitlementService) load(ctx context.Context, userID uuid.UUID) (*entity.UserAccount, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// GetTrialStatus returns the trial status of the account now
func (s *EntitlementService) GetTrialStatus(ctx context.Context, userID uuid.UUID) (entity.TrialStatus, error) {
	account, err := s.load(ctx, userID)
	if err != nil {
		return entity.TrialStatus{}, err
	}
	return TrialStatusAt(account, s.clock.Now()), nil
}

// IsFeatureUnlocked reports whether feature is usable now
func (s *EntitlementService) IsFeatureUnlocked(ctx context.Context, userID uuid.UUID, feature string) (bool, error) {
	account, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return IsFeatureUnlockedAt(account, s.clock.Now(), feature), nil
}

// GetTaskLimit returns the active task cap or Unlimited
func (s *EntitlementService) GetTaskLimit(ctx context.Context, userID uuid.UUID) (int, error) {
	account, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return TaskLimitAt(account, s.clock.Now()), nil
}

// GetHistoryLimit returns the history window in days or Unlimited
func (s *EntitlementService) GetHistoryLimit(ctx context.Context, userID uuid.UUID) (int, error) {
	account, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return HistoryLimitAt(account, s.clock.Now()), nil
}

// Snapshot evaluates all rules against a single read of the account
func (s *EntitlementService) Snapshot(ctx context.Context, userID uuid.UUID) (*Entitlements, error) {
	account, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	e := EntitlementsAt(account, s.clock.Now())
	return &e, nil
}
