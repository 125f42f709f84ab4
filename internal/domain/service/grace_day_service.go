package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

const (
	// BaseMonthlyGraceDays is the free allotment that resets every calendar month
	BaseMonthlyGraceDays = 3

	// XPPerGraceDay is the price of one earned grace day
	XPPerGraceDay = 100
)

var (
	ErrNoGraceDaysRemaining = errors.New("no grace days remaining")
	ErrGraceDayInFuture     = errors.New("cannot cover a day that has not passed")
	ErrDayAlreadyCovered    = errors.New("day is already covered or completed")
	ErrInvalidGraceDayUse   = errors.New("grace day type cannot be applied to a habit")
	ErrInvalidGraceDayCount = errors.New("grace day count must be positive")
)

// GraceDaysRemainingAt is the base allotment plus earned days, capped at
// entity.MaxGraceDaysEarned, minus manual uses in now's month. It is never negative.
func GraceDaysRemainingAt(account *entity.UserAccount, actions []*entity.GraceDayAction, now time.Time) int {
	used := 0
	for _, a := range actions {
		if a.CountsAgainstMonth(now) {
			used++
		}
	}
	remaining := BaseMonthlyGraceDays + min(entity.MaxGraceDaysEarned, account.GraceDaysEarned) - used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CoveredDaysFor collects the days bridged for habitID from a ledger
func CoveredDaysFor(actions []*entity.GraceDayAction, habitID uuid.UUID) entity.CoveredDays {
	covered := entity.CoveredDays{}
	for _, a := range actions {
		if a.Covers(habitID) {
			covered[*a.CoveredDay] = true
		}
	}
	return covered
}

// GraceDayApplied is published after a grace day has been recorded against a habit
type GraceDayApplied struct {
	UserID     uuid.UUID
	HabitID    uuid.UUID
	CoveredDay valueobject.Day
}

// GraceDayNotifier is told about applied grace days so streaks can be recomputed
type GraceDayNotifier interface {
	GraceDayApplied(ctx context.Context, evt GraceDayApplied) error
}

// GraceDayNotifiers fans an event out to several notifiers, returning the first error
type GraceDayNotifiers []GraceDayNotifier

func (n GraceDayNotifiers) GraceDayApplied(ctx context.Context, evt GraceDayApplied) error {
	var first error
	for _, notifier := range n {
		if err := notifier.GraceDayApplied(ctx, evt); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// GraceDayService manages the grace-day ledger
type GraceDayService struct {
	accounts repository.AccountRepository
	habits   repository.HabitRepository
	ledger   repository.GraceDayRepository
	clock    Clock
	logger   *zap.Logger
	notifier GraceDayNotifier
}

// NewGraceDayService creates a new grace day service
func NewGraceDayService(
	accounts repository.AccountRepository,
	habits repository.HabitRepository,
	ledger repository.GraceDayRepository,
	clock Clock,
	logger *zap.Logger,
) *GraceDayService {
	return &GraceDayService{
		accounts: accounts,
		habits:   habits,
		ledger:   ledger,
		clock:    clock,
		logger:   logger,
	}
}

// WithNotifier sets the applied-grace-day notifier
func (s *GraceDayService) WithNotifier(n GraceDayNotifier) *GraceDayService {
	s.notifier = n
	return s
}

// GetGraceDaysRemaining returns the grace days the user can still apply this month
func (s *GraceDayService) GetGraceDaysRemaining(ctx context.Context, userID uuid.UUID) (int, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load account: %w", err)
	}
	actions, err := s.ledger.ListByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load grace day ledger: %w", err)
	}
	return GraceDaysRemainingAt(account, actions, s.clock.Now()), nil
}

// History returns the user's ledger
func (s *GraceDayService) History(ctx context.Context, userID uuid.UUID) ([]*entity.GraceDayAction, error) {
	actions, err := s.ledger.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grace day ledger: %w", err)
	}
	return actions, nil
}

// CoveredDays returns the days bridged for one habit
func (s *GraceDayService) CoveredDays(ctx context.Context, userID, habitID uuid.UUID) (entity.CoveredDays, error) {
	actions, err := s.ledger.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grace day ledger: %w", err)
	}
	return CoveredDaysFor(actions, habitID), nil
}

// ApplyGraceDay records a grace day covering coveredDay for a habit.
// A zero coveredDay means yesterday. Every type needs a grace day remaining,
// though only manual uses are counted against the month. A refused request
// returns false with the reason as error; the ledger is left untouched.
func (s *GraceDayService) ApplyGraceDay(ctx context.Context, userID, habitID uuid.UUID, coveredDay valueobject.Day, t valueobject.GraceDayType) (bool, error) {
	if t == "" {
		t = valueobject.GraceDayManual
	}
	if t == valueobject.GraceDayXPPurchase {
		return false, ErrInvalidGraceDayUse
	}

	now := s.clock.Now()
	today := valueobject.DayOf(now)
	if coveredDay.IsZero() {
		coveredDay = today.AddDays(-1)
	}
	if !coveredDay.Before(today) {
		return false, ErrGraceDayInFuture
	}

	habit, err := s.habits.GetByID(ctx, userID, habitID)
	if err != nil {
		return false, fmt.Errorf("failed to load habit: %w", err)
	}
	if rec, ok := habit.RecordFor(coveredDay); ok && rec.Completed {
		return false, ErrDayAlreadyCovered
	}

	var refused error
	err = s.ledger.Append(ctx, userID, func(account *entity.UserAccount, actions []*entity.GraceDayAction) (*entity.GraceDayAction, error) {
		switch {
		case GraceDaysRemainingAt(account, actions, now) <= 0:
			refused = ErrNoGraceDaysRemaining
		case CoveredDaysFor(actions, habitID)[coveredDay]:
			refused = ErrDayAlreadyCovered
		default:
			refused = nil
			return entity.NewGraceDayUse(userID, habitID, coveredDay, t, now), nil
		}
		return nil, refused
	})
	if err != nil {
		if refused != nil && errors.Is(err, refused) {
			return false, refused
		}
		return false, fmt.Errorf("failed to append grace day: %w", err)
	}

	s.logger.Info("grace day applied",
		zap.String("user_id", userID.String()),
		zap.String("habit_id", habitID.String()),
		zap.String("covered_day", coveredDay.String()),
		zap.String("type", string(t)),
	)

	if s.notifier != nil {
		evt := GraceDayApplied{UserID: userID, HabitID: habitID, CoveredDay: coveredDay}
		if err := s.notifier.GraceDayApplied(ctx, evt); err != nil {
			s.logger.Warn("failed to publish grace day", zap.Error(err))
		}
	}
	return true, nil
}

// PurchaseGraceDaysWithXP converts XP into earned grace days at XPPerGraceDay each.
// Insufficient XP or exceeding the earned cap returns false and changes nothing.
func (s *GraceDayService) PurchaseGraceDaysWithXP(ctx context.Context, userID uuid.UUID, count int) (bool, error) {
	if count < 1 {
		return false, ErrInvalidGraceDayCount
	}

	now := s.clock.Now()
	var refused error
	err := s.ledger.Append(ctx, userID, func(account *entity.UserAccount, _ []*entity.GraceDayAction) (*entity.GraceDayAction, error) {
		refused = account.SpendXPForGraceDays(count, XPPerGraceDay, now)
		if refused != nil {
			return nil, refused
		}
		return entity.NewGraceDayPurchase(userID, count*XPPerGraceDay, now), nil
	})
	if err != nil {
		if refused != nil && errors.Is(err, refused) {
			return false, refused
		}
		return false, fmt.Errorf("failed to append grace day purchase: %w", err)
	}

	s.logger.Info("grace days purchased",
		zap.String("user_id", userID.String()),
		zap.Int("count", count),
		zap.Int("xp_spent", count*XPPerGraceDay),
	)
	return true, nil
}
