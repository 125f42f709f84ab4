package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// AccountService handles sign-up and account lookup
type AccountService struct {
	accounts repository.AccountRepository
	habits   repository.HabitRepository
	badges   repository.BadgeRepository
	clock    Clock
	logger   *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accounts repository.AccountRepository,
	habits repository.HabitRepository,
	badges repository.BadgeRepository,
	clock Clock,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		habits:   habits,
		badges:   badges,
		clock:    clock,
		logger:   logger,
	}
}

// SignUp creates an account whose trial starts now, with starter habits and badges
func (s *AccountService) SignUp(ctx context.Context, email, name string) (*entity.UserAccount, error) {
	addr, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, &domainErrors.ValidationError{Field: "email", Message: err.Error(), Err: domainErrors.ErrInvalidEmail}
	}

	existing, err := s.accounts.GetByEmail(ctx, addr.String())
	if err != nil && !errors.Is(err, domainErrors.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, domainErrors.ErrAccountAlreadyExists
	}

	now := s.clock.Now()
	account := entity.NewUserAccount(addr.String(), name, now)
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	for _, h := range entity.SampleHabits(account.ID, now) {
		if err := s.habits.Create(ctx, h); err != nil {
			return nil, fmt.Errorf("failed to seed habits: %w", err)
		}
	}
	if err := s.badges.SaveAll(ctx, account.ID, entity.DefaultBadges(account.ID)); err != nil {
		return nil, fmt.Errorf("failed to seed badges: %w", err)
	}

	s.logger.Info("account created",
		zap.String("user_id", account.ID.String()),
		zap.Time("trial_end", account.TrialEndDate),
	)
	return account, nil
}

// GetAccount returns the account
func (s *AccountService) GetAccount(ctx context.Context, userID uuid.UUID) (*entity.UserAccount, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// DeleteAccount removes the account with its habits, badges and ledger
func (s *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.accounts.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.logger.Info("account deleted", zap.String("user_id", userID.String()))
	return nil
}
