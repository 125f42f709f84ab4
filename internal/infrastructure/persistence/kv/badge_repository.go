package kv

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/repository"
)

type badgeRepository struct {
	store Store
}

// NewBadgeRepository creates a BadgeRepository on a Store
func NewBadgeRepository(store Store) repository.BadgeRepository {
	return &badgeRepository{store: store}
}

func (r *badgeRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Badge, error) {
	var docs []badgeDoc
	if _, err := getJSON(ctx, r.store, badgesKey(userID), &docs); err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	badges := make([]*entity.Badge, 0, len(docs))
	for _, d := range docs {
		badges = append(badges, &entity.Badge{
			ID:          d.ID,
			UserID:      d.UserID,
			Name:        d.Name,
			Description: d.Description,
			Icon:        d.Icon,
			UnlockedAt:  d.UnlockedAt,
		})
	}
	return badges, nil
}

func (r *badgeRepository) SaveAll(ctx context.Context, userID uuid.UUID, badges []*entity.Badge) error {
	docs := make([]badgeDoc, 0, len(badges))
	for _, b := range badges {
		docs = append(docs, badgeDoc{
			ID:          b.ID,
			UserID:      userID,
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			UnlockedAt:  b.UnlockedAt,
		})
	}
	key := badgesKey(userID)
	return r.store.Update(ctx, []string{key}, func(tx Txn) error {
		return txSetJSON(tx, key, docs)
	})
}
