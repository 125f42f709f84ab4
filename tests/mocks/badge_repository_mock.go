package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bivex/habitpass/internal/domain/entity"
)

// MockBadgeRepository is a mock implementation of BadgeRepository
type MockBadgeRepository struct {
	mock.Mock
}

func (m *MockBadgeRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Badge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Badge), args.Error(1)
}

func (m *MockBadgeRepository) SaveAll(ctx context.Context, userID uuid.UUID, badges []*entity.Badge) error {
	args := m.Called(ctx, userID, badges)
	return args.Error(0)
}
