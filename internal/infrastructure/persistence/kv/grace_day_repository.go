package kv

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
)

type graceDayRepository struct {
	store Store
}

// NewGraceDayRepository creates a GraceDayRepository on a Store
func NewGraceDayRepository(store Store) repository.GraceDayRepository {
	return &graceDayRepository{store: store}
}

func (r *graceDayRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GraceDayAction, error) {
	var docs []graceDayDoc
	if _, err := getJSON(ctx, r.store, ledgerKey(userID), &docs); err != nil {
		return nil, fmt.Errorf("failed to load grace day ledger: %w", err)
	}
	return toGraceDayActions(docs)
}

// Append reads the account and ledger inside the update, so a concurrent
// writer to either key makes the store retry fn on fresh state
func (r *graceDayRepository) Append(ctx context.Context, userID uuid.UUID, fn repository.LedgerAppend) error {
	key := ledgerKey(userID)
	return r.store.Update(ctx, []string{key, userKey(userID)}, func(tx Txn) error {
		account, err := txGetAccount(tx, userID)
		if err != nil {
			return err
		}
		var docs []graceDayDoc
		if _, err := txGetJSON(tx, key, &docs); err != nil {
			return err
		}
		ledger, err := toGraceDayActions(docs)
		if err != nil {
			return err
		}

		action, err := fn(account, ledger)
		if err != nil {
			return err
		}
		docs = append(docs, toGraceDayDoc(action))
		if err := txSetJSON(tx, key, docs); err != nil {
			return err
		}
		return txSetJSON(tx, userKey(userID), toAccountDoc(account))
	})
}

func toGraceDayActions(docs []graceDayDoc) ([]*entity.GraceDayAction, error) {
	actions := make([]*entity.GraceDayAction, 0, len(docs))
	for _, d := range docs {
		a, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}
