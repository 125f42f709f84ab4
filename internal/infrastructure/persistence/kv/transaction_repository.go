package kv

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

type transactionRepository struct {
	store Store
}

// NewTransactionRepository creates a TransactionRepository on a Store
func NewTransactionRepository(store Store) repository.TransactionRepository {
	return &transactionRepository{store: store}
}

func (r *transactionRepository) Record(ctx context.Context, txn *entity.Transaction, account *entity.UserAccount) error {
	key := transactionsKey(txn.UserID)
	keys := []string{key}
	if account != nil {
		keys = append(keys, userKey(account.ID))
	}
	if txn.ReceiptHash != "" {
		keys = append(keys, receiptKey(txn.ReceiptHash))
	}

	return r.store.Update(ctx, keys, func(tx Txn) error {
		var docs []transactionDoc
		if _, err := txGetJSON(tx, key, &docs); err != nil {
			return err
		}
		docs = append(docs, transactionDoc{
			ID:           txn.ID,
			UserID:       txn.UserID,
			PlanID:       string(txn.PlanID),
			AmountCents:  txn.Amount.Cents,
			Currency:     txn.Amount.Currency,
			Status:       string(txn.Status),
			Provider:     txn.Provider,
			ReceiptHash:  txn.ReceiptHash,
			ProviderTxID: txn.ProviderTxID,
			CreatedAt:    txn.CreatedAt,
		})
		if err := txSetJSON(tx, key, docs); err != nil {
			return err
		}
		if txn.ReceiptHash != "" && txn.IsSuccessful() {
			tx.Set(receiptKey(txn.ReceiptHash), []byte(txn.ID.String()))
		}
		if account != nil {
			return putAccount(tx, account)
		}
		return nil
	})
}

func (r *transactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error) {
	var docs []transactionDoc
	if _, err := getJSON(ctx, r.store, transactionsKey(userID), &docs); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}

	txns := make([]*entity.Transaction, 0, len(docs))
	for _, d := range docs {
		txns = append(txns, &entity.Transaction{
			ID:           d.ID,
			UserID:       d.UserID,
			PlanID:       valueobject.PlanID(d.PlanID),
			Amount:       valueobject.Money{Cents: d.AmountCents, Currency: d.Currency},
			Status:       entity.TransactionStatus(d.Status),
			Provider:     d.Provider,
			ReceiptHash:  d.ReceiptHash,
			ProviderTxID: d.ProviderTxID,
			CreatedAt:    d.CreatedAt,
		})
	}
	return txns, nil
}

func (r *transactionRepository) CheckDuplicateReceipt(ctx context.Context, receiptHash string) (bool, error) {
	_, ok, err := r.store.Get(ctx, receiptKey(receiptHash))
	if err != nil {
		return false, fmt.Errorf("failed to check receipt: %w", err)
	}
	return ok, nil
}
