package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
)

// TransactionRepository defines the interface for purchase transaction data access
type TransactionRepository interface {
	// Record stores a transaction. When account is non-nil it is saved in the
	// same unit of work, so the entitlement change and its receipt land together.
	Record(ctx context.Context, txn *entity.Transaction, account *entity.UserAccount) error
	// ListByUserID retrieves a user's transactions, newest first
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error)
	// CheckDuplicateReceipt checks if a receipt has already been processed
	CheckDuplicateReceipt(ctx context.Context, receiptHash string) (bool, error)
}
