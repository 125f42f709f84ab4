package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
)

// GraceDayRepository defines the interface for the append-only grace-day ledger
type GraceDayRepository interface {
	// ListByUserID returns the user's ledger in append order
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GraceDayAction, error)

	// Append runs fn on the account and ledger read inside one transaction and
	// appends the entry fn returns. Changes fn makes to the account are saved
	// with the entry. Writers for the same user are serialized; an error from
	// fn aborts without writing.
	Append(ctx context.Context, userID uuid.UUID, fn LedgerAppend) error
}

// LedgerAppend decides the entry to append from the current account and ledger
type LedgerAppend func(account *entity.UserAccount, ledger []*entity.GraceDayAction) (*entity.GraceDayAction, error)
