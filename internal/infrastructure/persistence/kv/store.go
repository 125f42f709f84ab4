// Package kv persists the domain as JSON documents in a key-value store.
//
// Key layout:
//
//	user_<id>                 account document
//	email_<email>             account id for an email
//	accounts_index            ids of all accounts
//	habits_<userId>           habit documents with completion history
//	graceDayActions_<userId>  grace-day ledger
//	badges_<userId>           badge documents
//	transactions_<userId>     purchase transactions
//	receipt_<hash>            marker for a processed receipt
package kv

import (
	"context"
	"errors"
)

var (
	// ErrConflict is returned when a concurrent writer kept changing the watched keys
	ErrConflict = errors.New("kv: too many concurrent updates")
)

// Txn is a read-then-write unit of work. Writes are buffered and applied
// atomically when the update function returns nil.
type Txn interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte)
	Remove(key string)
}

// Store is the key-value contract
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Update runs fn and commits its writes atomically. Changes to keys by
	// another writer between fn's reads and the commit retry fn.
	Update(ctx context.Context, keys []string, fn func(tx Txn) error) error
	Ping(ctx context.Context) error
}
