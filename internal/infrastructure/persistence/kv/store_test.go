package kv_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/infrastructure/persistence/kv"
)

func newRedisStore(t *testing.T) (*kv.RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return kv.NewRedisStore(client, "test:"), mr, client
}

// stores returns every Store implementation under test
func stores(t *testing.T) map[string]kv.Store {
	t.Helper()
	redisStore, _, _ := newRedisStore(t)
	return map[string]kv.Store{
		"memory": kv.NewMemoryStore(),
		"redis":  redisStore,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key", func(t *testing.T) {
				v, ok, err := store.Get(ctx, "missing")
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Nil(t, v)
			})

			t.Run("update commits writes", func(t *testing.T) {
				err := store.Update(ctx, []string{"a", "b"}, func(tx kv.Txn) error {
					tx.Set("a", []byte("1"))
					tx.Set("b", []byte("2"))
					return nil
				})
				require.NoError(t, err)

				v, ok, err := store.Get(ctx, "a")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, []byte("1"), v)
			})

			t.Run("reads its own writes", func(t *testing.T) {
				err := store.Update(ctx, []string{"own"}, func(tx kv.Txn) error {
					tx.Set("own", []byte("x"))
					v, ok, err := tx.Get("own")
					require.NoError(t, err)
					assert.True(t, ok)
					assert.Equal(t, []byte("x"), v)

					tx.Remove("own")
					_, ok, err = tx.Get("own")
					require.NoError(t, err)
					assert.False(t, ok)
					return nil
				})
				require.NoError(t, err)

				_, ok, err := store.Get(ctx, "own")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("error discards writes", func(t *testing.T) {
				boom := errors.New("boom")
				err := store.Update(ctx, []string{"discarded"}, func(tx kv.Txn) error {
					tx.Set("discarded", []byte("1"))
					return boom
				})
				assert.ErrorIs(t, err, boom)

				_, ok, err := store.Get(ctx, "discarded")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("remove deletes committed key", func(t *testing.T) {
				require.NoError(t, store.Update(ctx, []string{"gone"}, func(tx kv.Txn) error {
					tx.Set("gone", []byte("1"))
					return nil
				}))
				require.NoError(t, store.Update(ctx, []string{"gone"}, func(tx kv.Txn) error {
					tx.Remove("gone")
					return nil
				}))

				_, ok, err := store.Get(ctx, "gone")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("ping", func(t *testing.T) {
				assert.NoError(t, store.Ping(ctx))
			})
		})
	}
}

func TestMemoryStore_SerializesUpdates(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, []string{"counter"}, func(tx kv.Txn) error {
				raw, _, _ := tx.Get("counter")
				n, _ := strconv.Atoi(string(raw))
				tx.Set("counter", []byte(strconv.Itoa(n+1)))
				return nil
			})
		}()
	}
	wg.Wait()

	raw, _, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "50", string(raw))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := kv.NewMemoryStore().Update(ctx, nil, func(kv.Txn) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("prefixes keys", func(t *testing.T) {
		store, mr, _ := newRedisStore(t)
		require.NoError(t, store.Update(ctx, []string{"k"}, func(tx kv.Txn) error {
			tx.Set("k", []byte("v"))
			return nil
		}))

		got, err := mr.Get("test:k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
		assert.False(t, mr.Exists("k"))
	})

	t.Run("retries when a watched key changes", func(t *testing.T) {
		store, _, client := newRedisStore(t)
		attempts := 0

		err := store.Update(ctx, []string{"watched"}, func(tx kv.Txn) error {
			attempts++
			if _, _, err := tx.Get("watched"); err != nil {
				return err
			}
			if attempts == 1 {
				require.NoError(t, client.Set(ctx, "test:watched", "other", 0).Err())
			}
			tx.Set("watched", []byte("mine"))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)

		v, _, err := store.Get(ctx, "watched")
		require.NoError(t, err)
		assert.Equal(t, "mine", string(v))
	})

	t.Run("gives up after repeated conflicts", func(t *testing.T) {
		store, _, client := newRedisStore(t)
		attempts := 0

		err := store.Update(ctx, []string{"hot"}, func(tx kv.Txn) error {
			attempts++
			require.NoError(t, client.Incr(ctx, "test:hot").Err())
			tx.Set("hot", []byte("mine"))
			return nil
		})
		assert.ErrorIs(t, err, kv.ErrConflict)
		assert.Equal(t, 5, attempts)
	})
}
