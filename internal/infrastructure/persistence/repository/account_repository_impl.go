package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/pool"
)

const accountColumns = `id, email, name, xp, level, xp_to_next_level, currency, premium, premium_type,
	ad_removal, trial_start_date, trial_end_date, last_ad_shown, grace_days_earned,
	streak_corrections, created_at, updated_at`

// uniqueViolation is the PostgreSQL error code for a unique constraint violation
const uniqueViolation = "23505"

// AccountRepositoryImpl implements AccountRepository on PostgreSQL
type AccountRepositoryImpl struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(pool *pgxpool.Pool) repository.AccountRepository {
	return &AccountRepositoryImpl{pool: pool}
}

// Create inserts a new account
func (r *AccountRepositoryImpl) Create(ctx context.Context, a *entity.UserAccount) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Email, a.Name, a.XP, a.Level, a.XPToNextLevel, a.Currency, a.Premium,
		string(a.PremiumType), string(a.AdRemoval), a.TrialStartDate, a.TrialEndDate, a.LastAdShown,
		a.GraceDaysEarned, a.StreakCorrections, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainErrors.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.UserAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.NewAccountNotFound(id.String())
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entity.UserAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.NewAccountNotFound(email)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// Update replaces the stored account
func (r *AccountRepositoryImpl) Update(ctx context.Context, a *entity.UserAccount) error {
	return updateAccount(ctx, r.pool, a)
}

// Mutate locks the account row for the length of the transaction
func (r *AccountRepositoryImpl) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.UserAccount) error) (*entity.UserAccount, error) {
	var out *entity.UserAccount
	err := pool.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		a, err := lockAccount(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
		out = a
		return updateAccount(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the account; habits, ledger, badges and transactions cascade
func (r *AccountRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.NewAccountNotFound(id.String())
	}
	return nil
}

// ListIDs pages through account IDs in ID order
func (r *AccountRepositoryImpl) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM accounts
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// lockAccount reads the account with a row lock held until tx ends
func lockAccount(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entity.UserAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	a, err := scanAccount(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.NewAccountNotFound(id.String())
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return a, nil
}

func updateAccount(ctx context.Context, q querier, a *entity.UserAccount) error {
	query := `
		UPDATE accounts SET
			email = $2, name = $3, xp = $4, level = $5, xp_to_next_level = $6, currency = $7,
			premium = $8, premium_type = $9, ad_removal = $10, trial_start_date = $11,
			trial_end_date = $12, last_ad_shown = $13, grace_days_earned = $14,
			streak_corrections = $15, updated_at = $16
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		a.ID, a.Email, a.Name, a.XP, a.Level, a.XPToNextLevel, a.Currency, a.Premium,
		string(a.PremiumType), string(a.AdRemoval), a.TrialStartDate, a.TrialEndDate, a.LastAdShown,
		a.GraceDaysEarned, a.StreakCorrections, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.NewAccountNotFound(a.ID.String())
	}
	return nil
}

func scanAccount(row pgx.Row) (*entity.UserAccount, error) {
	a := &entity.UserAccount{}
	var premiumType, adRemoval string
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.XP,
		&a.Level,
		&a.XPToNextLevel,
		&a.Currency,
		&a.Premium,
		&premiumType,
		&adRemoval,
		&a.TrialStartDate,
		&a.TrialEndDate,
		&a.LastAdShown,
		&a.GraceDaysEarned,
		&a.StreakCorrections,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.PremiumType, err = valueobject.NewPremiumType(premiumType); err != nil {
		return nil, err
	}
	if a.AdRemoval, err = valueobject.NewAdRemovalTier(adRemoval); err != nil {
		return nil, err
	}
	return a, nil
}
