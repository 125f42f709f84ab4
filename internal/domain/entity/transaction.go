package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/valueobject"
)

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction records one billing attempt for a plan
type Transaction struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	PlanID       valueobject.PlanID
	Amount       valueobject.Money
	Status       TransactionStatus
	Provider     string
	ReceiptHash  string
	ProviderTxID string
	CreatedAt    time.Time
}

// NewTransaction creates a successful transaction
func NewTransaction(userID uuid.UUID, planID valueobject.PlanID, amount valueobject.Money, provider string, now time.Time) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    planID,
		Amount:    amount,
		Status:    TransactionStatusSuccess,
		Provider:  provider,
		CreatedAt: now,
	}
}

// IsSuccessful returns true if the transaction was successful
func (t *Transaction) IsSuccessful() bool {
	return t.Status == TransactionStatusSuccess
}

// MarkFailed flags the attempt as declined by the provider
func (t *Transaction) MarkFailed() {
	t.Status = TransactionStatusFailed
}
