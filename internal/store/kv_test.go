package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (KeyValueStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "state.json")
	kv, err := NewFileStore(path, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv, path
}

// runKeyValueContract checks the behaviour every backend shares.
func runKeyValueContract(t *testing.T, newStore func(t *testing.T) KeyValueStore) {
	ctx := context.Background()

	t.Run("get absent", func(t *testing.T) {
		kv := newStore(t)
		v, found, err := kv.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set get remove", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "k", `"v"`))

		v, found, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `"v"`, v)

		require.NoError(t, kv.Remove(ctx, "k"))
		_, found, err = kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("remove absent is noop", func(t *testing.T) {
		kv := newStore(t)
		assert.NoError(t, kv.Remove(ctx, "nothing"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, KeyCurrentUser, "a"))
		require.NoError(t, kv.Set(ctx, KeyAnalysisHistory, "b"))
		require.NoError(t, kv.Remove(ctx, KeyAnalysisHistory))

		v, found, err := kv.Get(ctx, KeyCurrentUser)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "a", v)
	})

	t.Run("update sees absent then writes", func(t *testing.T) {
		kv := newStore(t)
		err := kv.Update(ctx, "k", func(value string, found bool) (string, error) {
			assert.False(t, found)
			return "1", nil
		})
		require.NoError(t, err)

		v, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "1", v)
	})

	t.Run("update error leaves value", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "k", "keep"))

		boom := errors.New("boom")
		err := kv.Update(ctx, "k", func(value string, found bool) (string, error) {
			return "changed", boom
		})
		assert.ErrorIs(t, err, boom)

		v, _, _ := kv.Get(ctx, "k")
		assert.Equal(t, "keep", v)
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		kv := newStore(t)
		const workers = 20

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := kv.Update(ctx, "counter", func(value string, found bool) (string, error) {
					n := 0
					if found {
						n, _ = strconv.Atoi(value)
					}
					return strconv.Itoa(n + 1), nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		v, _, err := kv.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(workers), v)
	})

	t.Run("closed store", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Close())
		_, _, err := kv.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrStoreClosed)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	runKeyValueContract(t, func(t *testing.T) KeyValueStore {
		return NewMemoryStore()
	})
}

func TestFileStore_Contract(t *testing.T) {
	runKeyValueContract(t, func(t *testing.T) KeyValueStore {
		kv, _ := newTestFileStore(t)
		return kv
	})
}

func TestMemoryStore_UpdateHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryStore().Update(ctx, "k", func(string, bool) (string, error) {
		t.Fatal("update func must not run")
		return "", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	kv, path := newTestFileStore(t)
	require.NoError(t, kv.Set(ctx, KeyCurrentUser, `{"id":"u1"}`))
	require.NoError(t, kv.Close())

	reopened, err := NewFileStore(path, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	v, found, err := reopened.Get(ctx, KeyCurrentUser)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"u1"}`, v)
}

func TestFileStore_CorruptDocumentReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, found, err := kv.Get(ctx, KeyRegisteredUsers)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, KeyRegisteredUsers, "[]"))
	v, found, err := kv.Get(ctx, KeyRegisteredUsers)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", v)
}

// TestFileStore_TwoInstancesShareLock simulates two client processes working
// on the same document.
func TestFileStore_TwoInstancesShareLock(t *testing.T) {
	ctx := context.Background()
	first, path := newTestFileStore(t)
	second, err := NewFileStore(path, logger.Nop())
	require.NoError(t, err)
	defer second.Close()

	const perStore = 10
	var wg sync.WaitGroup
	for _, kv := range []KeyValueStore{first, second} {
		for i := 0; i < perStore; i++ {
			wg.Add(1)
			go func(kv KeyValueStore) {
				defer wg.Done()
				err := kv.Update(ctx, "counter", func(value string, found bool) (string, error) {
					n, _ := strconv.Atoi(value)
					return strconv.Itoa(n + 1), nil
				})
				assert.NoError(t, err)
			}(kv)
		}
	}
	wg.Wait()

	v, _, err := first.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(2*perStore), v)
}
