package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jacksmith/storefront/internal/kv"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("init in empty directory creates .storefront structure", func(t *testing.T) {
		dir := t.TempDir()

		s, err := Init(dir, BackendFile)
		require.NoError(t, err)
		require.NotNil(t, s)

		info, err := os.Stat(filepath.Join(dir, ".storefront"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		_, err = os.Stat(filepath.Join(dir, ".storefront", "config.yaml"))
		require.NoError(t, err)

		info, err = os.Stat(filepath.Join(dir, ".storefront", "kv"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		assert.Equal(t, dir, s.Root())
		assert.Equal(t, filepath.Join(dir, ".storefront"), s.DataPath())
		assert.Equal(t, BackendFile, s.Backend())
	})

	t.Run("empty backend defaults to file", func(t *testing.T) {
		s, err := Init(t.TempDir(), "")
		require.NoError(t, err)
		assert.Equal(t, BackendFile, s.Backend())
	})

	t.Run("sqlite backend creates store.db", func(t *testing.T) {
		dir := t.TempDir()

		s, err := Init(dir, BackendSQLite)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })

		_, err = os.Stat(filepath.Join(dir, ".storefront", "store.db"))
		require.NoError(t, err)
		assert.Equal(t, BackendSQLite, s.Backend())
	})

	t.Run("memory backend is rejected for a workspace", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Init(dir, BackendMemory)
		require.Error(t, err)

		_, err = os.Stat(filepath.Join(dir, ".storefront"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("init in directory with existing .storefront returns error", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Init(dir, BackendFile)
		require.NoError(t, err)

		_, err = Init(dir, BackendFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestOpen(t *testing.T) {
	t.Run("open existing workspace succeeds", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Init(dir, BackendFile)
		require.NoError(t, err)

		s, err := Open(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, s.Root())
		assert.Equal(t, BackendFile, s.Backend())
	})

	t.Run("open without .storefront returns error", func(t *testing.T) {
		_, err := Open(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("open when .storefront is a file returns error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".storefront"), nil, 0644))

		_, err := Open(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("open reads backend from config.yaml", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Init(dir, BackendSQLite)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		s, err = Open(dir)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		assert.Equal(t, BackendSQLite, s.Backend())
	})

	t.Run("unknown backend in config.yaml returns error", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Init(dir, BackendFile)
		require.NoError(t, err)

		cfgPath := filepath.Join(dir, ".storefront", "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("version: 1\nbackend: tape\n"), 0644))

		_, err = Open(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend")
	})

	t.Run("newer config version is refused", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Init(dir, BackendFile)
		require.NoError(t, err)

		cfgPath := filepath.Join(dir, ".storefront", "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("version: 99\nbackend: file\n"), 0644))

		_, err = Open(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "newer")
	})

	t.Run("data survives reopen", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()

		s, err := Init(dir, BackendFile)
		require.NoError(t, err)
		require.NoError(t, Save(ctx, s, model.KeyCategories, model.DefaultCategories()))
		require.NoError(t, s.SetLoggedIn(ctx, true))

		s, err = Open(dir)
		require.NoError(t, err)

		cats, found, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, model.DefaultCategories(), cats)

		loggedIn, err := s.LoggedIn(ctx)
		require.NoError(t, err)
		assert.True(t, loggedIn)
	})
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", BackendFile, false},
		{"file", BackendFile, false},
		{"SQLite", BackendSQLite, false},
		{" sqlite ", BackendSQLite, false},
		{"memory", "", true},
		{"postgres", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackend(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoginFlag(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := New(mem)

	t.Run("missing flag means logged out", func(t *testing.T) {
		loggedIn, err := s.LoggedIn(ctx)
		require.NoError(t, err)
		assert.False(t, loggedIn)
	})

	t.Run("flag is stored as the string true or false", func(t *testing.T) {
		require.NoError(t, s.SetLoggedIn(ctx, true))
		v, _, err := mem.GetItem(ctx, model.KeyLogin)
		require.NoError(t, err)
		assert.Equal(t, "true", v)

		require.NoError(t, s.SetLoggedIn(ctx, false))
		v, _, err = mem.GetItem(ctx, model.KeyLogin)
		require.NoError(t, err)
		assert.Equal(t, "false", v)
	})

	t.Run("any other value means logged out", func(t *testing.T) {
		require.NoError(t, mem.SetItem(ctx, model.KeyLogin, "yes"))
		loggedIn, err := s.LoggedIn(ctx)
		require.NoError(t, err)
		assert.False(t, loggedIn)
	})
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())

	require.NoError(t, s.SetLoggedIn(ctx, true))
	require.NoError(t, Save(ctx, s, model.KeyProducts, []model.Product{}))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{model.KeyLogin, model.KeyProducts}, keys)
}
