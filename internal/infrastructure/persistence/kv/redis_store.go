package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

// RedisStore is a Store on Redis. Update uses WATCH and MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a client; prefix namespaces every key
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Update(ctx context.Context, keys []string, fn func(tx Txn) error) error {
	watched := make([]string, len(keys))
	for i, k := range keys {
		watched[i] = s.key(k)
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			t := &redisTxn{
				ctx:     ctx,
				tx:      rtx,
				store:   s,
				writes:  make(map[string][]byte),
				deletes: make(map[string]bool),
			}
			if err := fn(t); err != nil {
				return err
			}
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for k := range t.deletes {
					pipe.Del(ctx, s.key(k))
				}
				for k, v := range t.writes {
					pipe.Set(ctx, s.key(k), v, 0)
				}
				return nil
			})
			return err
		}, watched...)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

type redisTxn struct {
	ctx     context.Context
	tx      *redis.Tx
	store   *RedisStore
	writes  map[string][]byte
	deletes map[string]bool
}

func (t *redisTxn) Get(key string) ([]byte, bool, error) {
	if t.deletes[key] {
		return nil, false, nil
	}
	if v, ok := t.writes[key]; ok {
		return v, true, nil
	}
	v, err := t.tx.Get(t.ctx, t.store.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (t *redisTxn) Set(key string, value []byte) {
	delete(t.deletes, key)
	t.writes[key] = value
}

func (t *redisTxn) Remove(key string) {
	delete(t.writes, key)
	t.deletes[key] = true
}
