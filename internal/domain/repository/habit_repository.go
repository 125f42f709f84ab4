package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
)

// HabitRepository defines the interface for habit data access.
// Update persists the completion history and the cached streak together.
type HabitRepository interface {
	Create(ctx context.Context, habit *entity.Habit) error
	GetByID(ctx context.Context, userID, habitID uuid.UUID) (*entity.Habit, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error)
	Update(ctx context.Context, habit *entity.Habit) error
	Delete(ctx context.Context, userID, habitID uuid.UUID) error
}
