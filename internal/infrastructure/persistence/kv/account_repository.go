package kv

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/repository"
)

type accountRepository struct {
	store Store
}

// NewAccountRepository creates an AccountRepository on a Store
func NewAccountRepository(store Store) repository.AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) Create(ctx context.Context, a *entity.UserAccount) error {
	keys := []string{userKey(a.ID), emailKey(a.Email), accountsIndexKey}
	return r.store.Update(ctx, keys, func(tx Txn) error {
		if _, exists, err := tx.Get(emailKey(a.Email)); err != nil {
			return err
		} else if exists {
			return domainErrors.ErrAccountAlreadyExists
		}

		var index []uuid.UUID
		if _, err := txGetJSON(tx, accountsIndexKey, &index); err != nil {
			return err
		}
		index = append(index, a.ID)

		if err := txSetJSON(tx, userKey(a.ID), toAccountDoc(a)); err != nil {
			return err
		}
		tx.Set(emailKey(a.Email), []byte(a.ID.String()))
		return txSetJSON(tx, accountsIndexKey, index)
	})
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.UserAccount, error) {
	var doc accountDoc
	ok, err := getJSON(ctx, r.store, userKey(id), &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if !ok {
		return nil, domainErrors.NewAccountNotFound(id.String())
	}
	return doc.toEntity()
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*entity.UserAccount, error) {
	raw, ok, err := r.store.Get(ctx, emailKey(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if !ok {
		return nil, domainErrors.NewAccountNotFound(email)
	}
	id, err := uuid.ParseBytes(bytes.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("corrupt email index for %s: %w", email, err)
	}
	return r.GetByID(ctx, id)
}

func (r *accountRepository) Update(ctx context.Context, a *entity.UserAccount) error {
	return r.store.Update(ctx, []string{userKey(a.ID)}, func(tx Txn) error {
		return putAccount(tx, a)
	})
}

func (r *accountRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.UserAccount) error) (*entity.UserAccount, error) {
	var out *entity.UserAccount
	err := r.store.Update(ctx, []string{userKey(id)}, func(tx Txn) error {
		a, err := txGetAccount(tx, id)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
		out = a
		return txSetJSON(tx, userKey(id), toAccountDoc(a))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// txGetAccount reads an account inside tx, watching its key
func txGetAccount(tx Txn, id uuid.UUID) (*entity.UserAccount, error) {
	var doc accountDoc
	ok, err := txGetJSON(tx, userKey(id), &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainErrors.NewAccountNotFound(id.String())
	}
	return doc.toEntity()
}

// putAccount overwrites an existing account document inside tx
func putAccount(tx Txn, a *entity.UserAccount) error {
	if _, exists, err := tx.Get(userKey(a.ID)); err != nil {
		return err
	} else if !exists {
		return domainErrors.NewAccountNotFound(a.ID.String())
	}
	return txSetJSON(tx, userKey(a.ID), toAccountDoc(a))
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	keys := []string{userKey(id), accountsIndexKey, habitsKey(id), ledgerKey(id), badgesKey(id), transactionsKey(id)}
	return r.store.Update(ctx, keys, func(tx Txn) error {
		var doc accountDoc
		ok, err := txGetJSON(tx, userKey(id), &doc)
		if err != nil {
			return err
		}
		if !ok {
			return domainErrors.NewAccountNotFound(id.String())
		}

		var index []uuid.UUID
		if _, err := txGetJSON(tx, accountsIndexKey, &index); err != nil {
			return err
		}
		kept := index[:0]
		for _, existing := range index {
			if existing != id {
				kept = append(kept, existing)
			}
		}

		tx.Remove(userKey(id))
		tx.Remove(emailKey(doc.Email))
		tx.Remove(habitsKey(id))
		tx.Remove(ledgerKey(id))
		tx.Remove(badgesKey(id))
		tx.Remove(transactionsKey(id))
		return txSetJSON(tx, accountsIndexKey, kept)
	})
}

func (r *accountRepository) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	var index []uuid.UUID
	if _, err := getJSON(ctx, r.store, accountsIndexKey, &index); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sort.Slice(index, func(i, j int) bool {
		return bytes.Compare(index[i][:], index[j][:]) < 0
	})

	var out []uuid.UUID
	for _, id := range index {
		if bytes.Compare(id[:], after[:]) <= 0 {
			continue
		}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
