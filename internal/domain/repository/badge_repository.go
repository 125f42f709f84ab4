package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
)

// BadgeRepository defines the interface for badge data access
type BadgeRepository interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Badge, error)
	SaveAll(ctx context.Context, userID uuid.UUID, badges []*entity.Badge) error
}
