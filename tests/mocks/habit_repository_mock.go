package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bivex/habitpass/internal/domain/entity"
)

// MockHabitRepository is a mock implementation of HabitRepository
type MockHabitRepository struct {
	mock.Mock
}

func (m *MockHabitRepository) Create(ctx context.Context, habit *entity.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *MockHabitRepository) GetByID(ctx context.Context, userID, habitID uuid.UUID) (*entity.Habit, error) {
	args := m.Called(ctx, userID, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Habit), args.Error(1)
}

func (m *MockHabitRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Habit), args.Error(1)
}

func (m *MockHabitRepository) Update(ctx context.Context, habit *entity.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *MockHabitRepository) Delete(ctx context.Context, userID, habitID uuid.UUID) error {
	args := m.Called(ctx, userID, habitID)
	return args.Error(0)
}
