package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
)

const (
	// StreakCorrectionCost is the currency price of one streak correction
	StreakCorrectionCost = 100

	// BadgeXPReward is granted when a badge is unlocked
	BadgeXPReward = 50
)

// Badge names unlocked automatically by habit progress
const (
	BadgeFirstSteps  = "First Steps"
	BadgeHabitMaster = "Habit Master"

	habitMasterStreak = 7
)

var (
	ErrBadgeNotFound   = errors.New("badge not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrBadgeIdentifier = errors.New("badge id or name is required")
)

// GamificationService manages XP, levels, currency, streak corrections and badges
type GamificationService struct {
	accounts repository.AccountRepository
	badges   repository.BadgeRepository
	clock    Clock
	logger   *zap.Logger
}

// NewGamificationService creates a new gamification service
func NewGamificationService(
	accounts repository.AccountRepository,
	badges repository.BadgeRepository,
	clock Clock,
	logger *zap.Logger,
) *GamificationService {
	return &GamificationService{
		accounts: accounts,
		badges:   badges,
		clock:    clock,
		logger:   logger,
	}
}

// mutate applies fn to the account inside one repository transaction.
// fn returning an error aborts without writing and the error is returned as is.
func (s *GamificationService) mutate(ctx context.Context, userID uuid.UUID, fn func(*entity.UserAccount) error) (*entity.UserAccount, error) {
	var rejected error
	account, err := s.accounts.Mutate(ctx, userID, func(a *entity.UserAccount) error {
		rejected = fn(a)
		return rejected
	})
	if err != nil {
		if rejected != nil && errors.Is(err, rejected) {
			return nil, rejected
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// AddXP grants XP and levels the account up as thresholds are crossed
func (s *GamificationService) AddXP(ctx context.Context, userID uuid.UUID, amount int) (*entity.UserAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	leveled := false
	account, err := s.mutate(ctx, userID, func(a *entity.UserAccount) error {
		leveled = a.AddXP(amount, s.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if leveled {
		s.logger.Info("level up", zap.String("user_id", userID.String()), zap.Int("level", account.Level))
	}
	return account, nil
}

// AddCurrency credits currency
func (s *GamificationService) AddCurrency(ctx context.Context, userID uuid.UUID, amount int) (*entity.UserAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.mutate(ctx, userID, func(a *entity.UserAccount) error {
		a.AddCurrency(amount, s.clock.Now())
		return nil
	})
}

// SpendCurrency debits currency; an insufficient balance returns entity.ErrInsufficientCurrency
func (s *GamificationService) SpendCurrency(ctx context.Context, userID uuid.UUID, amount int) (*entity.UserAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.mutate(ctx, userID, func(a *entity.UserAccount) error {
		return a.SpendCurrency(amount, s.clock.Now())
	})
}

// UseStreakCorrection consumes one correction token
func (s *GamificationService) UseStreakCorrection(ctx context.Context, userID uuid.UUID) (*entity.UserAccount, error) {
	return s.mutate(ctx, userID, func(a *entity.UserAccount) error {
		return a.UseStreakCorrection(s.clock.Now())
	})
}

// BuyStreakCorrection trades StreakCorrectionCost currency for one correction
func (s *GamificationService) BuyStreakCorrection(ctx context.Context, userID uuid.UUID) (*entity.UserAccount, error) {
	return s.mutate(ctx, userID, func(a *entity.UserAccount) error {
		now := s.clock.Now()
		if err := a.SpendCurrency(StreakCorrectionCost, now); err != nil {
			return err
		}
		a.AddStreakCorrection(now)
		return nil
	})
}

// ListBadges returns the user's badges
func (s *GamificationService) ListBadges(ctx context.Context, userID uuid.UUID) ([]*entity.Badge, error) {
	badges, err := s.badges.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	return badges, nil
}

// UnlockBadge unlocks the badge with the given id and grants BadgeXPReward.
// Unlocking an already unlocked badge returns false without granting XP.
func (s *GamificationService) UnlockBadge(ctx context.Context, userID, badgeID uuid.UUID) (bool, error) {
	return s.unlock(ctx, userID, func(b *entity.Badge) bool { return b.ID == badgeID })
}

// UnlockBadgeByName is UnlockBadge keyed by badge name
func (s *GamificationService) UnlockBadgeByName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	if name == "" {
		return false, ErrBadgeIdentifier
	}
	return s.unlock(ctx, userID, func(b *entity.Badge) bool { return b.Name == name })
}

func (s *GamificationService) unlock(ctx context.Context, userID uuid.UUID, match func(*entity.Badge) bool) (bool, error) {
	badges, err := s.badges.ListByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load badges: %w", err)
	}

	var target *entity.Badge
	for _, b := range badges {
		if match(b) {
			target = b
			break
		}
	}
	if target == nil {
		return false, ErrBadgeNotFound
	}
	if !target.Unlock(s.clock.Now()) {
		return false, nil
	}
	if err := s.badges.SaveAll(ctx, userID, badges); err != nil {
		return false, fmt.Errorf("failed to save badges: %w", err)
	}

	s.logger.Info("badge unlocked", zap.String("user_id", userID.String()), zap.String("badge", target.Name))

	if _, err := s.AddXP(ctx, userID, BadgeXPReward); err != nil {
		return true, fmt.Errorf("badge unlocked but xp reward failed: %w", err)
	}
	return true, nil
}
