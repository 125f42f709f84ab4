package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// CreateHabitCommand creates a habit for the caller
type CreateHabitCommand struct {
	habits *service.HabitService
}

// NewCreateHabitCommand creates a new create habit command
func NewCreateHabitCommand(habits *service.HabitService) *CreateHabitCommand {
	return &CreateHabitCommand{habits: habits}
}

// Execute executes the create habit command
func (c *CreateHabitCommand) Execute(ctx context.Context, userID string, req *dto.CreateHabitRequest) (*dto.HabitResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	habit, err := c.habits.CreateHabit(ctx, uid, service.HabitInput{
		Title:       req.Title,
		Description: req.Description,
		Frequency:   dto.ToFrequency(req.Frequency),
		TimeOfDay:   req.TimeOfDay,
		Tags:        req.Tags,
		XPReward:    req.XPReward,
	})
	if err != nil {
		return nil, err
	}
	return dto.FromHabit(habit), nil
}

// UpdateHabitCommand edits habit details. History and streak are not editable here.
type UpdateHabitCommand struct {
	habits *service.HabitService
}

// NewUpdateHabitCommand creates a new update habit command
func NewUpdateHabitCommand(habits *service.HabitService) *UpdateHabitCommand {
	return &UpdateHabitCommand{habits: habits}
}

// Execute executes the update habit command
func (c *UpdateHabitCommand) Execute(ctx context.Context, userID, habitID string, req *dto.UpdateHabitRequest) (*dto.HabitResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	hid, err := parseID("habit", habitID)
	if err != nil {
		return nil, err
	}

	upd := service.HabitUpdate{
		Title:       req.Title,
		Description: req.Description,
		TimeOfDay:   req.TimeOfDay,
		Tags:        req.Tags,
		XPReward:    req.XPReward,
	}
	if req.Frequency != nil {
		f := dto.ToFrequency(req.Frequency)
		upd.Frequency = &f
	}

	habit, err := c.habits.UpdateHabit(ctx, uid, hid, upd)
	if err != nil {
		return nil, err
	}
	return dto.FromHabit(habit), nil
}

// DeleteHabitCommand removes a habit
type DeleteHabitCommand struct {
	habits *service.HabitService
}

// NewDeleteHabitCommand creates a new delete habit command
func NewDeleteHabitCommand(habits *service.HabitService) *DeleteHabitCommand {
	return &DeleteHabitCommand{habits: habits}
}

// Execute executes the delete habit command
func (c *DeleteHabitCommand) Execute(ctx context.Context, userID, habitID string) error {
	uid, err := parseUserID(userID)
	if err != nil {
		return err
	}
	hid, err := parseID("habit", habitID)
	if err != nil {
		return err
	}
	return c.habits.DeleteHabit(ctx, uid, hid)
}

// MarkHabitCommand records a day as completed or not completed
type MarkHabitCommand struct {
	habits *service.HabitService
}

// NewMarkHabitCommand creates a new mark habit command
func NewMarkHabitCommand(habits *service.HabitService) *MarkHabitCommand {
	return &MarkHabitCommand{habits: habits}
}

// Complete marks req.Date, or today, as completed
func (c *MarkHabitCommand) Complete(ctx context.Context, userID, habitID string, req *dto.MarkHabitRequest) (*dto.HabitResponse, error) {
	return c.mark(ctx, userID, habitID, req, c.habits.MarkComplete)
}

// Incomplete marks req.Date, or today, as not completed
func (c *MarkHabitCommand) Incomplete(ctx context.Context, userID, habitID string, req *dto.MarkHabitRequest) (*dto.HabitResponse, error) {
	return c.mark(ctx, userID, habitID, req, c.habits.MarkIncomplete)
}

type markFunc func(ctx context.Context, userID, habitID uuid.UUID, day valueobject.Day) (*entity.Habit, error)

func (c *MarkHabitCommand) mark(ctx context.Context, userID, habitID string, req *dto.MarkHabitRequest, fn markFunc) (*dto.HabitResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	hid, err := parseID("habit", habitID)
	if err != nil {
		return nil, err
	}
	day, err := parseOptionalDay(req.Date)
	if err != nil {
		return nil, err
	}

	habit, err := fn(ctx, uid, hid, day)
	if err != nil {
		return nil, err
	}
	return dto.FromHabit(habit), nil
}
