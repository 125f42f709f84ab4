package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

var (
	ErrFutureDay  = errors.New("cannot record a day that has not started")
	ErrEmptyTitle = errors.New("habit title is required")
	ErrNegativeXP = errors.New("xp reward must not be negative")
	ErrHabitOwner = errors.New("habit does not belong to user")
)

// HabitInput carries the fields of a new habit
type HabitInput struct {
	Title       string
	Description string
	Frequency   entity.Frequency
	TimeOfDay   string
	Tags        []string
	XPReward    int
}

// HabitUpdate carries the fields to change; nil means unchanged
type HabitUpdate struct {
	Title       *string
	Description *string
	Frequency   *entity.Frequency
	TimeOfDay   *string
	Tags        []string
	XPReward    *int
}

// HabitRewarder grants progression for completed habits
type HabitRewarder interface {
	AddXP(ctx context.Context, userID uuid.UUID, amount int) (*entity.UserAccount, error)
	UnlockBadgeByName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
}

// HabitService manages habits and keeps their cached streaks in step with
// completion history and grace-day coverage
type HabitService struct {
	habits  repository.HabitRepository
	ledger  repository.GraceDayRepository
	clock   Clock
	logger  *zap.Logger
	rewards HabitRewarder
}

// NewHabitService creates a new habit service
func NewHabitService(
	habits repository.HabitRepository,
	ledger repository.GraceDayRepository,
	clock Clock,
	logger *zap.Logger,
) *HabitService {
	return &HabitService{
		habits: habits,
		ledger: ledger,
		clock:  clock,
		logger: logger,
	}
}

// WithRewarder enables XP and badge rewards on completion
func (s *HabitService) WithRewarder(r HabitRewarder) *HabitService {
	s.rewards = r
	return s
}

// CreateHabit adds a habit for the user
func (s *HabitService) CreateHabit(ctx context.Context, userID uuid.UUID, in HabitInput) (*entity.Habit, error) {
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}
	if in.XPReward < 0 {
		return nil, ErrNegativeXP
	}
	if in.Frequency.Type == "" {
		in.Frequency.Type = entity.FrequencyDaily
	}
	if err := in.Frequency.Validate(); err != nil {
		return nil, err
	}

	habit := entity.NewHabit(userID, in.Title, in.Frequency, in.XPReward, s.clock.Now())
	habit.Description = in.Description
	habit.TimeOfDay = in.TimeOfDay
	habit.Tags = in.Tags

	if err := s.habits.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	return habit, nil
}

// GetHabit returns one habit
func (s *HabitService) GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*entity.Habit, error) {
	habit, err := s.habits.GetByID(ctx, userID, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	if habit.UserID != userID {
		return nil, ErrHabitOwner
	}
	return habit, nil
}

// ListHabits returns the user's habits
func (s *HabitService) ListHabits(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error) {
	habits, err := s.habits.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

// UpdateHabit changes descriptive fields. History and streak are not editable here.
func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, upd HabitUpdate) (*entity.Habit, error) {
	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, ErrEmptyTitle
		}
		habit.Title = *upd.Title
	}
	if upd.Description != nil {
		habit.Description = *upd.Description
	}
	if upd.Frequency != nil {
		if err := upd.Frequency.Validate(); err != nil {
			return nil, err
		}
		habit.Frequency = *upd.Frequency
	}
	if upd.TimeOfDay != nil {
		habit.TimeOfDay = *upd.TimeOfDay
	}
	if upd.Tags != nil {
		habit.Tags = upd.Tags
	}
	if upd.XPReward != nil {
		if *upd.XPReward < 0 {
			return nil, ErrNegativeXP
		}
		habit.XPReward = *upd.XPReward
	}
	habit.UpdatedAt = s.clock.Now()

	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

// DeleteHabit removes a habit
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID uuid.UUID) error {
	if err := s.habits.Delete(ctx, userID, habitID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

// resolveDay defaults a zero day to today and refuses days after today
func (s *HabitService) resolveDay(day valueobject.Day) (valueobject.Day, error) {
	today := valueobject.DayOf(s.clock.Now())
	if day.IsZero() {
		return today, nil
	}
	if day.After(today) {
		return valueobject.Day{}, ErrFutureDay
	}
	return day, nil
}

// MarkComplete records day as completed. A zero day means today.
// Completing an already completed day returns the habit unchanged.
func (s *HabitService) MarkComplete(ctx context.Context, userID, habitID uuid.UUID, day valueobject.Day) (*entity.Habit, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return nil, err
	}
	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	covered, err := s.coveredDays(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if !habit.MarkComplete(day, covered, s.clock.Now()) {
		return habit, nil
	}
	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to save habit: %w", err)
	}

	s.logger.Debug("habit completed",
		zap.String("user_id", userID.String()),
		zap.String("habit_id", habitID.String()),
		zap.String("day", day.String()),
		zap.Int("streak", habit.Streak()),
	)
	s.reward(ctx, habit)
	return habit, nil
}

// reward grants XP and progress badges. Failures are logged, the completion stands.
func (s *HabitService) reward(ctx context.Context, habit *entity.Habit) {
	if s.rewards == nil {
		return
	}
	log := s.logger.With(zap.String("user_id", habit.UserID.String()), zap.String("habit_id", habit.ID.String()))

	if habit.XPReward > 0 {
		if _, err := s.rewards.AddXP(ctx, habit.UserID, habit.XPReward); err != nil {
			log.Warn("failed to award habit xp", zap.Error(err))
		}
	}

	badges := []string{BadgeFirstSteps}
	if habit.Streak() >= habitMasterStreak {
		badges = append(badges, BadgeHabitMaster)
	}
	for _, name := range badges {
		if _, err := s.rewards.UnlockBadgeByName(ctx, habit.UserID, name); err != nil && !errors.Is(err, ErrBadgeNotFound) {
			log.Warn("failed to unlock badge", zap.String("badge", name), zap.Error(err))
		}
	}
}

// MarkIncomplete records day as not completed. A zero day means today.
func (s *HabitService) MarkIncomplete(ctx context.Context, userID, habitID uuid.UUID, day valueobject.Day) (*entity.Habit, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return nil, err
	}
	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	covered, err := s.coveredDays(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	habit.MarkIncomplete(day, covered, s.clock.Now())
	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to save habit: %w", err)
	}
	return habit, nil
}

// ReconcileStreaks extends cached streaks across newly covered days and returns
// the number of habits updated
func (s *HabitService) ReconcileStreaks(ctx context.Context, userID uuid.UUID) (int, error) {
	habits, err := s.habits.ListByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list habits: %w", err)
	}
	actions, err := s.ledger.ListByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load grace day ledger: %w", err)
	}

	now := s.clock.Now()
	updated := 0
	for _, h := range habits {
		if !h.Reconcile(CoveredDaysFor(actions, h.ID), now) {
			continue
		}
		if err := s.habits.Update(ctx, h); err != nil {
			return updated, fmt.Errorf("failed to save habit %s: %w", h.ID, err)
		}
		updated++
	}
	return updated, nil
}

func (s *HabitService) coveredDays(ctx context.Context, userID, habitID uuid.UUID) (entity.CoveredDays, error) {
	actions, err := s.ledger.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grace day ledger: %w", err)
	}
	return CoveredDaysFor(actions, habitID), nil
}
