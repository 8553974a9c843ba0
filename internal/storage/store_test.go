package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	mem, err := NewSQLiteStore(ctx, ":memory:")
	require.NoError(t, err)
	file, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "data", "kv.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory":        NewMemoryStore(),
		"sqlite-memory": mem,
		"sqlite-file":   file,
	}
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		r, err := NewRedisStore(ctx, url)
		require.NoError(t, err)
		stores["redis"] = r
	}
	for _, s := range stores {
		t.Cleanup(func() { s.Close() })
	}
	return stores
}

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "k", []byte("v1")))
			require.NoError(t, s.Set(ctx, "k", []byte("v2")))
			v, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), v)

			require.NoError(t, s.Delete(ctx, "k"))
			_, err = s.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting an absent key is not an error.
			require.NoError(t, s.Delete(ctx, "k"))
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Update(ctx, "u", func(current []byte) ([]byte, error) {
				assert.Nil(t, current)
				return []byte("first"), nil
			})
			require.NoError(t, err)

			boom := errors.New("boom")
			err = s.Update(ctx, "u", func(current []byte) ([]byte, error) {
				assert.Equal(t, []byte("first"), current)
				return nil, boom
			})
			assert.ErrorIs(t, err, boom)

			v, err := s.Get(ctx, "u")
			require.NoError(t, err)
			assert.Equal(t, []byte("first"), v, "failed update must not write")
		})
	}
}

func TestStoreUpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			const workers = 20
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := s.Update(ctx, "counter", func(current []byte) ([]byte, error) {
						var n uint64
						if len(current) == 8 {
							n = binary.BigEndian.Uint64(current)
						}
						out := make([]byte, 8)
						binary.BigEndian.PutUint64(out, n+1)
						return out, nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			v, err := s.Get(ctx, "counter")
			require.NoError(t, err)
			assert.Equal(t, uint64(workers), binary.BigEndian.Uint64(v))
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "etcd"})
	assert.Error(t, err)

	s, err := Open(context.Background(), Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}
