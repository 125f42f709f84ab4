package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
)

// AccountRepository defines the interface for user account data access
type AccountRepository interface {
	// Create stores a new account
	Create(ctx context.Context, account *entity.UserAccount) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.UserAccount, error)

	// GetByEmail retrieves an account by its normalized email
	GetByEmail(ctx context.Context, email string) (*entity.UserAccount, error)

	// Update replaces the stored account
	Update(ctx context.Context, account *entity.UserAccount) error

	// Mutate applies fn to the stored account and saves the result in one
	// transaction. Concurrent mutations of one account are serialized; an
	// error from fn aborts without writing.
	Mutate(ctx context.Context, id uuid.UUID, fn func(account *entity.UserAccount) error) (*entity.UserAccount, error)

	// Delete removes the account and everything keyed by it
	Delete(ctx context.Context, id uuid.UUID) error

	// ListIDs pages through account IDs ordered by ID, starting after the given cursor
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}
