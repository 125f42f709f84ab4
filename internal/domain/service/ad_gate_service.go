package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
)

// InterstitialInterval is the minimum gap between two interstitial ads
const InterstitialInterval = 5 * time.Minute

// CanShowInterstitialAt reports whether an interstitial may be shown at now.
// The gap check is inclusive: exactly InterstitialInterval after the last ad is allowed.
func CanShowInterstitialAt(account *entity.UserAccount, now time.Time) bool {
	if hasFullAccess(account, now) {
		return false
	}
	if account.AdRemoval.SuppressesInterstitials() {
		return false
	}
	if account.LastAdShown == nil {
		return true
	}
	return now.Sub(*account.LastAdShown) >= InterstitialInterval
}

// ShouldShowBannerAt reports whether banner ads are shown at now
func ShouldShowBannerAt(account *entity.UserAccount, now time.Time) bool {
	if hasFullAccess(account, now) {
		return false
	}
	return !account.AdRemoval.SuppressesBanners()
}

// AdGateService decides ad eligibility and records displayed interstitials
type AdGateService struct {
	accounts repository.AccountRepository
	clock    Clock
	logger   *zap.Logger
}

// NewAdGateService creates a new ad gate service
func NewAdGateService(accounts repository.AccountRepository, clock Clock, logger *zap.Logger) *AdGateService {
	return &AdGateService{
		accounts: accounts,
		clock:    clock,
		logger:   logger,
	}
}

// CanShowInterstitial reports interstitial eligibility. It does not record anything.
func (s *AdGateService) CanShowInterstitial(ctx context.Context, userID uuid.UUID) (bool, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	return CanShowInterstitialAt(account, s.clock.Now()), nil
}

// ShouldShowBanner reports banner eligibility
func (s *AdGateService) ShouldShowBanner(ctx context.Context, userID uuid.UUID) (bool, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	return ShouldShowBannerAt(account, s.clock.Now()), nil
}

// MarkAdShown records that an interstitial was displayed now
func (s *AdGateService) MarkAdShown(ctx context.Context, userID uuid.UUID) error {
	_, err := s.accounts.Mutate(ctx, userID, func(a *entity.UserAccount) error {
		a.MarkAdShown(s.clock.Now())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record ad shown: %w", err)
	}
	s.logger.Debug("interstitial shown", zap.String("user_id", userID.String()))
	return nil
}
