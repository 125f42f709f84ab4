package query

import (
	"context"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/service"
)

// HabitsQuery reads habits with their cached streaks
type HabitsQuery struct {
	habits *service.HabitService
}

// NewHabitsQuery creates a new habits query
func NewHabitsQuery(habits *service.HabitService) *HabitsQuery {
	return &HabitsQuery{habits: habits}
}

// List returns all of the caller's habits
func (q *HabitsQuery) List(ctx context.Context, userID string) ([]*dto.HabitResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	habits, err := q.habits.ListHabits(ctx, uid)
	if err != nil {
		return nil, err
	}
	return dto.FromHabits(habits), nil
}

// Get returns one habit
func (q *HabitsQuery) Get(ctx context.Context, userID, habitID string) (*dto.HabitResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	hid, err := parseID("habit", habitID)
	if err != nil {
		return nil, err
	}
	habit, err := q.habits.GetHabit(ctx, uid, hid)
	if err != nil {
		return nil, err
	}
	return dto.FromHabit(habit), nil
}
