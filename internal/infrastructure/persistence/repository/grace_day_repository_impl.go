package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/pool"
)

// GraceDayRepositoryImpl implements GraceDayRepository on PostgreSQL
type GraceDayRepositoryImpl struct {
	pool *pgxpool.Pool
}

// NewGraceDayRepository creates a new grace day repository
func NewGraceDayRepository(pool *pgxpool.Pool) repository.GraceDayRepository {
	return &GraceDayRepositoryImpl{pool: pool}
}

// ListByUserID returns the ledger in append order
func (r *GraceDayRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GraceDayAction, error) {
	return listGraceDayActions(ctx, r.pool, userID)
}

// Append holds the account row lock while fn decides, so concurrent ledger
// writers for one user run one after another
func (r *GraceDayRepositoryImpl) Append(ctx context.Context, userID uuid.UUID, fn repository.LedgerAppend) error {
	return pool.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		account, err := lockAccount(ctx, tx, userID)
		if err != nil {
			return err
		}
		ledger, err := listGraceDayActions(ctx, tx, userID)
		if err != nil {
			return err
		}

		action, err := fn(account, ledger)
		if err != nil {
			return err
		}

		var coveredDay *time.Time
		if action.CoveredDay != nil {
			t := action.CoveredDay.Time()
			coveredDay = &t
		}

		query := `
			INSERT INTO grace_day_actions (id, user_id, type, date, habit_id, covered_day, xp_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err = tx.Exec(ctx, query,
			action.ID, action.UserID, string(action.Type), action.Date, action.HabitID, coveredDay, action.XPCost,
		)
		if err != nil {
			return fmt.Errorf("failed to append grace day action: %w", err)
		}
		return updateAccount(ctx, tx, account)
	})
}

func listGraceDayActions(ctx context.Context, q querier, userID uuid.UUID) ([]*entity.GraceDayAction, error) {
	query := `
		SELECT id, user_id, type, date, habit_id, covered_day, xp_cost
		FROM grace_day_actions
		WHERE user_id = $1
		ORDER BY seq
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grace day actions: %w", err)
	}
	defer rows.Close()

	var actions []*entity.GraceDayAction
	for rows.Next() {
		a := &entity.GraceDayAction{}
		var actionType string
		var coveredDay *time.Time
		if err := rows.Scan(&a.ID, &a.UserID, &actionType, &a.Date, &a.HabitID, &coveredDay, &a.XPCost); err != nil {
			return nil, err
		}
		a.Type = valueobject.GraceDayType(actionType)
		if coveredDay != nil {
			d := valueobject.DayOf(*coveredDay)
			a.CoveredDay = &d
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
