package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	f, err := OpenFile(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"file":   f,
		"sqlite": db,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key is absent, not an error", func(t *testing.T) {
				v, ok, err := s.GetItem(ctx, "missing")
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Equal(t, "", v)
			})

			t.Run("set then get returns value", func(t *testing.T) {
				require.NoError(t, s.SetItem(ctx, "categories", `[{"id":"1"}]`))
				v, ok, err := s.GetItem(ctx, "categories")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, `[{"id":"1"}]`, v)
			})

			t.Run("set replaces previous value", func(t *testing.T) {
				require.NoError(t, s.SetItem(ctx, "login", "false"))
				require.NoError(t, s.SetItem(ctx, "login", "true"))
				v, _, err := s.GetItem(ctx, "login")
				require.NoError(t, err)
				assert.Equal(t, "true", v)
			})

			t.Run("empty string is present", func(t *testing.T) {
				require.NoError(t, s.SetItem(ctx, "empty", ""))
				_, ok, err := s.GetItem(ctx, "empty")
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("keys are sorted", func(t *testing.T) {
				keys, err := s.Keys(ctx)
				require.NoError(t, err)
				assert.Equal(t, []string{"categories", "empty", "login"}, keys)
			})

			t.Run("remove deletes and tolerates missing", func(t *testing.T) {
				require.NoError(t, s.RemoveItem(ctx, "empty"))
				require.NoError(t, s.RemoveItem(ctx, "empty"))
				_, ok, err := s.GetItem(ctx, "empty")
				require.NoError(t, err)
				assert.False(t, ok)
			})
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("keys with path separators are escaped", func(t *testing.T) {
		dir := t.TempDir()
		f, err := OpenFile(dir)
		require.NoError(t, err)

		require.NoError(t, f.SetItem(ctx, "a/b", "x"))
		v, ok, err := f.GetItem(ctx, "a/b")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "x", v)

		_, err = os.Stat(filepath.Join(dir, "a"))
		assert.True(t, os.IsNotExist(err), "no subdirectory should be created")
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		f, err := OpenFile(dir)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			require.NoError(t, f.SetItem(ctx, "products", "[]"))
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "products.json", entries[0].Name())
	})

	t.Run("ignores foreign files", func(t *testing.T) {
		dir := t.TempDir()
		f, err := OpenFile(dir)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("hi"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))
		require.NoError(t, f.SetItem(ctx, "login", "true"))

		keys, err := f.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"login"}, keys)
	})

	t.Run("cancelled context is rejected", func(t *testing.T) {
		f, err := OpenFile(t.TempDir())
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, f.SetItem(cctx, "login", "true"))
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.SetItem(ctx, "products", "[]"))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := db.GetItem(ctx, "products")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}
