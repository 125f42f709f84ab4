package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bivex/habitpass/internal/domain/entity"
)

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, txn *entity.Transaction, account *entity.UserAccount) error {
	args := m.Called(ctx, txn, account)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CheckDuplicateReceipt(ctx context.Context, receiptHash string) (bool, error) {
	args := m.Called(ctx, receiptHash)
	return args.Bool(0), args.Error(1)
}
