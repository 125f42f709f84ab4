package kv

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/repository"
)

type habitRepository struct {
	store Store
}

// NewHabitRepository creates a HabitRepository on a Store.
// All habits of a user live in one document.
func NewHabitRepository(store Store) repository.HabitRepository {
	return &habitRepository{store: store}
}

func (r *habitRepository) load(ctx context.Context, userID uuid.UUID) ([]habitDoc, error) {
	var docs []habitDoc
	if _, err := getJSON(ctx, r.store, habitsKey(userID), &docs); err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	return docs, nil
}

// modify applies fn to the user's habit list inside one update
func (r *habitRepository) modify(ctx context.Context, userID uuid.UUID, fn func([]habitDoc) ([]habitDoc, error)) error {
	key := habitsKey(userID)
	return r.store.Update(ctx, []string{key}, func(tx Txn) error {
		var docs []habitDoc
		if _, err := txGetJSON(tx, key, &docs); err != nil {
			return err
		}
		docs, err := fn(docs)
		if err != nil {
			return err
		}
		return txSetJSON(tx, key, docs)
	})
}

func (r *habitRepository) Create(ctx context.Context, h *entity.Habit) error {
	return r.modify(ctx, h.UserID, func(docs []habitDoc) ([]habitDoc, error) {
		return append(docs, toHabitDoc(h)), nil
	})
}

func (r *habitRepository) GetByID(ctx context.Context, userID, habitID uuid.UUID) (*entity.Habit, error) {
	docs, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ID == habitID {
			return d.toEntity(), nil
		}
	}
	return nil, domainErrors.NewHabitNotFound(habitID.String())
}

func (r *habitRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error) {
	docs, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	habits := make([]*entity.Habit, 0, len(docs))
	for _, d := range docs {
		habits = append(habits, d.toEntity())
	}
	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, h *entity.Habit) error {
	return r.modify(ctx, h.UserID, func(docs []habitDoc) ([]habitDoc, error) {
		for i := range docs {
			if docs[i].ID == h.ID {
				docs[i] = toHabitDoc(h)
				return docs, nil
			}
		}
		return nil, domainErrors.NewHabitNotFound(h.ID.String())
	})
}

func (r *habitRepository) Delete(ctx context.Context, userID, habitID uuid.UUID) error {
	return r.modify(ctx, userID, func(docs []habitDoc) ([]habitDoc, error) {
		for i := range docs {
			if docs[i].ID == habitID {
				return append(docs[:i], docs[i+1:]...), nil
			}
		}
		return nil, domainErrors.NewHabitNotFound(habitID.String())
	})
}
