package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/pool"
)

// BadgeRepositoryImpl implements BadgeRepository on PostgreSQL
type BadgeRepositoryImpl struct {
	pool *pgxpool.Pool
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(pool *pgxpool.Pool) repository.BadgeRepository {
	return &BadgeRepositoryImpl{pool: pool}
}

// ListByUserID returns badges in display order
func (r *BadgeRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Badge, error) {
	query := `
		SELECT id, user_id, name, description, icon, unlocked_at
		FROM badges
		WHERE user_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []*entity.Badge
	for rows.Next() {
		b := &entity.Badge{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.Icon, &b.UnlockedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// SaveAll replaces the user's badge set
func (r *BadgeRepositoryImpl) SaveAll(ctx context.Context, userID uuid.UUID, badges []*entity.Badge) error {
	return pool.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM badges WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear badges: %w", err)
		}

		batch := &pgx.Batch{}
		for i, b := range badges {
			batch.Queue(`
				INSERT INTO badges (id, user_id, position, name, description, icon, unlocked_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, b.ID, userID, i, b.Name, b.Description, b.Icon, b.UnlockedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save badges: %w", err)
		}
		return nil
	})
}
