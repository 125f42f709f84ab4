package kv

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Update holds the store lock for the whole of fn, so updates are serialized
func (s *MemoryStore) Update(ctx context.Context, _ []string, fn func(tx Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTxn{store: s, writes: make(map[string][]byte), deletes: make(map[string]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	for k := range tx.deletes {
		delete(s.data, k)
	}
	for k, v := range tx.writes {
		s.data[k] = v
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

type memoryTxn struct {
	store   *MemoryStore
	writes  map[string][]byte
	deletes map[string]bool
}

func (t *memoryTxn) Get(key string) ([]byte, bool, error) {
	if t.deletes[key] {
		return nil, false, nil
	}
	if v, ok := t.writes[key]; ok {
		return v, true, nil
	}
	v, ok := t.store.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (t *memoryTxn) Set(key string, value []byte) {
	delete(t.deletes, key)
	t.writes[key] = append([]byte(nil), value...)
}

func (t *memoryTxn) Remove(key string) {
	delete(t.writes, key)
	t.deletes[key] = true
}
