package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
)

// MockGraceDayRepository is a mock implementation of GraceDayRepository
type MockGraceDayRepository struct {
	mock.Mock
}

func (m *MockGraceDayRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GraceDayAction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.GraceDayAction), args.Error(1)
}

func (m *MockGraceDayRepository) Append(ctx context.Context, userID uuid.UUID, fn repository.LedgerAppend) error {
	args := m.Called(ctx, userID, fn)
	return args.Error(0)
}
