package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/pool"
)

// TransactionRepositoryImpl implements TransactionRepository on PostgreSQL
type TransactionRepositoryImpl struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) repository.TransactionRepository {
	return &TransactionRepositoryImpl{pool: pool}
}

// Record inserts the transaction and, when account is given, saves it in the same transaction
func (r *TransactionRepositoryImpl) Record(ctx context.Context, txn *entity.Transaction, account *entity.UserAccount) error {
	return pool.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO transactions (id, user_id, plan_id, amount_cents, currency, status, provider, receipt_hash, provider_tx_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.Exec(ctx, query,
			txn.ID, txn.UserID, string(txn.PlanID), txn.Amount.Cents, txn.Amount.Currency, string(txn.Status),
			txn.Provider, nullIfEmpty(txn.ReceiptHash), nullIfEmpty(txn.ProviderTxID), txn.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		if account != nil {
			return updateAccount(ctx, tx, account)
		}
		return nil
	})
}

// ListByUserID retrieves transactions newest first
func (r *TransactionRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, user_id, plan_id, amount_cents, currency, status, provider,
			COALESCE(receipt_hash, ''), COALESCE(provider_tx_id, ''), created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*entity.Transaction
	for rows.Next() {
		t := &entity.Transaction{}
		var planID, status string
		if err := rows.Scan(
			&t.ID, &t.UserID, &planID, &t.Amount.Cents, &t.Amount.Currency, &status,
			&t.Provider, &t.ReceiptHash, &t.ProviderTxID, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.PlanID = valueobject.PlanID(planID)
		t.Status = entity.TransactionStatus(status)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// CheckDuplicateReceipt checks if a receipt has already been processed successfully
func (r *TransactionRepositoryImpl) CheckDuplicateReceipt(ctx context.Context, receiptHash string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM transactions WHERE receipt_hash = $1 AND status = 'success')`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, receiptHash).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check receipt: %w", err)
	}
	return exists, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
