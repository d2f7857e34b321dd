package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jacksmith/storefront/internal/kv"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStorage(t *testing.T) (*Storage, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	return New(mem), mem
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key is not found", func(t *testing.T) {
		s, _ := newMemStorage(t)
		cats, found, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, cats)
	})

	t.Run("save then load round-trips", func(t *testing.T) {
		s, _ := newMemStorage(t)
		want := model.DefaultProducts()
		require.NoError(t, Save(ctx, s, model.KeyProducts, want))

		got, found, err := Load[model.Product](ctx, s, model.KeyProducts)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, want, got)
	})

	t.Run("saved empty collection is found and empty", func(t *testing.T) {
		s, mem := newMemStorage(t)
		require.NoError(t, Save[model.Category](ctx, s, model.KeyCategories, nil))

		raw, _, err := mem.GetItem(ctx, model.KeyCategories)
		require.NoError(t, err)
		assert.Equal(t, "[]", raw)

		got, found, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, got)
	})

	t.Run("malformed value is corrupt", func(t *testing.T) {
		s, mem := newMemStorage(t)
		require.NoError(t, mem.SetItem(ctx, model.KeyCategories, "{not json"))

		_, found, err := Load[model.Category](ctx, s, model.KeyCategories)
		assert.True(t, found)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCorrupt))
		assert.True(t, errors.Is(err, model.ErrMalformed))

		var ce *CorruptError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, model.KeyCategories, ce.Key)
	})
}

func TestSeedIfAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds absent key", func(t *testing.T) {
		s, _ := newMemStorage(t)
		seeded, err := SeedIfAbsent(ctx, s, model.KeyCategories, model.DefaultCategories())
		require.NoError(t, err)
		assert.True(t, seeded)

		got, _, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.Len(t, got, 6)
	})

	t.Run("seeding twice writes once", func(t *testing.T) {
		s, _ := newMemStorage(t)
		_, err := SeedIfAbsent(ctx, s, model.KeyProducts, model.DefaultProducts())
		require.NoError(t, err)

		seeded, err := SeedIfAbsent(ctx, s, model.KeyProducts, model.DefaultProducts())
		require.NoError(t, err)
		assert.False(t, seeded)

		got, _, err := Load[model.Product](ctx, s, model.KeyProducts)
		require.NoError(t, err)
		assert.Len(t, got, 11)
	})

	t.Run("existing empty collection is not reseeded", func(t *testing.T) {
		s, _ := newMemStorage(t)
		require.NoError(t, Save(ctx, s, model.KeyCategories, []model.Category{}))

		seeded, err := SeedIfAbsent(ctx, s, model.KeyCategories, model.DefaultCategories())
		require.NoError(t, err)
		assert.False(t, seeded)

		got, _, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("corrupt collection is left alone", func(t *testing.T) {
		s, mem := newMemStorage(t)
		require.NoError(t, mem.SetItem(ctx, model.KeyCategories, "garbage"))

		seeded, err := SeedIfAbsent(ctx, s, model.KeyCategories, model.DefaultCategories())
		require.NoError(t, err)
		assert.False(t, seeded)

		raw, _, err := mem.GetItem(ctx, model.KeyCategories)
		require.NoError(t, err)
		assert.Equal(t, "garbage", raw)
	})
}

func TestMutate(t *testing.T) {
	ctx := context.Background()

	t.Run("absent collection starts empty", func(t *testing.T) {
		s, _ := newMemStorage(t)
		got, err := Mutate(ctx, s, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
			assert.Empty(t, cats)
			return append(cats, model.Category{ID: "a", Name: "A"}), nil
		})
		require.NoError(t, err)
		assert.Len(t, got, 1)

		stored, _, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.Equal(t, got, stored)
	})

	t.Run("error from fn writes nothing", func(t *testing.T) {
		s, _ := newMemStorage(t)
		require.NoError(t, Save(ctx, s, model.KeyCategories, model.DefaultCategories()))

		boom := errors.New("boom")
		_, err := Mutate(ctx, s, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		stored, _, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultCategories(), stored)
	})

	t.Run("corrupt collection is backed up and replaced", func(t *testing.T) {
		s, mem := newMemStorage(t)
		require.NoError(t, mem.SetItem(ctx, model.KeyProducts, `{"oops":true}`))

		_, err := Mutate(ctx, s, model.KeyProducts, func(ps []model.Product) ([]model.Product, error) {
			assert.Empty(t, ps)
			return append(ps, model.Product{ID: "p", CategoryID: "1", Name: "Tea", Price: "10"}), nil
		})
		require.NoError(t, err)

		backup, ok, err := mem.GetItem(ctx, model.KeyProducts+".corrupt")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"oops":true}`, backup)

		stored, _, err := Load[model.Product](ctx, s, model.KeyProducts)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "Tea", stored[0].Name)
	})

	t.Run("repeated corruption keeps every backup", func(t *testing.T) {
		s, mem := newMemStorage(t)
		keep := func(ps []model.Product) ([]model.Product, error) { return ps, nil }

		for _, raw := range []string{"first", "second", "third"} {
			require.NoError(t, mem.SetItem(ctx, model.KeyProducts, raw))
			_, err := Mutate(ctx, s, model.KeyProducts, keep)
			require.NoError(t, err)
		}

		for key, want := range map[string]string{
			model.KeyProducts + ".corrupt":   "first",
			model.KeyProducts + ".corrupt.1": "second",
			model.KeyProducts + ".corrupt.2": "third",
		} {
			got, ok, err := mem.GetItem(ctx, key)
			require.NoError(t, err)
			assert.True(t, ok, key)
			assert.Equal(t, want, got, key)
		}
	})

	t.Run("concurrent mutations are not lost", func(t *testing.T) {
		s, _ := newMemStorage(t)
		const n = 50

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := Mutate(ctx, s, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
					return append(cats, model.Category{ID: fmt.Sprintf("c%d", i), Name: "x"}), nil
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		stored, _, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.Len(t, stored, n)
	})

	t.Run("cancelled context while waiting returns ctx error", func(t *testing.T) {
		s, _ := newMemStorage(t)

		unlock, err := s.lockKey(ctx, model.KeyCategories)
		require.NoError(t, err)
		defer unlock()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = Mutate(cctx, s, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
			t.Fatal("fn must not run")
			return cats, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCompareAndSwap(t *testing.T) {
	ctx := context.Background()

	t.Run("absent collection has version zero", func(t *testing.T) {
		s, _ := newMemStorage(t)
		snap, err := LoadSnapshot[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.False(t, snap.Found)
		assert.Zero(t, snap.Version)

		require.NoError(t, CompareAndSwap(ctx, s, model.KeyCategories, 0, model.DefaultCategories()))
	})

	t.Run("matching version writes", func(t *testing.T) {
		s, _ := newMemStorage(t)
		require.NoError(t, Save(ctx, s, model.KeyCategories, model.DefaultCategories()))

		snap, err := LoadSnapshot[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.True(t, snap.Found)
		assert.NotZero(t, snap.Version)

		next := append(snap.Records, model.Category{ID: "7", Name: "Thai"})
		require.NoError(t, CompareAndSwap(ctx, s, model.KeyCategories, snap.Version, next))

		stored, _, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.Len(t, stored, 7)
	})

	t.Run("stale version conflicts and writes nothing", func(t *testing.T) {
		s, _ := newMemStorage(t)
		require.NoError(t, Save(ctx, s, model.KeyCategories, model.DefaultCategories()))

		snap, err := LoadSnapshot[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)

		// Another writer gets in first.
		_, err = Mutate(ctx, s, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
			return cats[:1], nil
		})
		require.NoError(t, err)

		err = CompareAndSwap(ctx, s, model.KeyCategories, snap.Version, snap.Records)
		assert.ErrorIs(t, err, ErrConflict)

		stored, _, err := Load[model.Category](ctx, s, model.KeyCategories)
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("identical content keeps the same version", func(t *testing.T) {
		s, _ := newMemStorage(t)
		require.NoError(t, Save(ctx, s, model.KeyProducts, model.DefaultProducts()))
		a, err := LoadSnapshot[model.Product](ctx, s, model.KeyProducts)
		require.NoError(t, err)

		require.NoError(t, Save(ctx, s, model.KeyProducts, model.DefaultProducts()))
		b, err := LoadSnapshot[model.Product](ctx, s, model.KeyProducts)
		require.NoError(t, err)

		assert.Equal(t, a.Version, b.Version)
	})
}
