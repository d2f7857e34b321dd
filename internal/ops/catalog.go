// Package ops implements the catalog operations on top of storage.
package ops

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/storage"
)

// Catalog performs category and product operations against a store.
// Every mutation is a whole-collection read-modify-write serialized per
// collection key.
type Catalog struct {
	store  *storage.Storage
	logger *slog.Logger
	newID  func() string
}

// NewCatalog returns a Catalog over s, logging through s's logger.
func NewCatalog(s *storage.Storage) *Catalog {
	return &Catalog{
		store:  s,
		logger: s.Logger(),
		newID:  model.NewID,
	}
}

// Store returns the underlying store.
func (c *Catalog) Store() *storage.Storage {
	return c.store
}

func (c *Catalog) config() (*storage.Config, error) {
	return c.store.LoadConfig()
}

// loadCategories reads the category collection. Absent and corrupt
// collections both read as empty; corruption is logged.
func (c *Catalog) loadCategories(ctx context.Context) ([]model.Category, error) {
	return loadOrEmpty[model.Category](ctx, c, model.KeyCategories)
}

func (c *Catalog) loadProducts(ctx context.Context) ([]model.Product, error) {
	return loadOrEmpty[model.Product](ctx, c, model.KeyProducts)
}

func loadOrEmpty[T model.Record](ctx context.Context, c *Catalog, key string) ([]T, error) {
	records, _, err := storage.Load[T](ctx, c.store, key)
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			c.logger.Warn("stored collection is corrupt, treating as empty", "key", key, "error", err)
			return []T{}, nil
		}
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// SeedCategories writes the default categories if none were ever stored
// and returns the collection in effect.
func (c *Catalog) SeedCategories(ctx context.Context) ([]model.Category, error) {
	if _, err := storage.SeedIfAbsent(ctx, c.store, model.KeyCategories, model.DefaultCategories()); err != nil {
		return nil, err
	}
	return c.loadCategories(ctx)
}

// SeedProducts writes the default products if none were ever stored and
// returns the collection in effect.
func (c *Catalog) SeedProducts(ctx context.Context) ([]model.Product, error) {
	if _, err := storage.SeedIfAbsent(ctx, c.store, model.KeyProducts, model.DefaultProducts()); err != nil {
		return nil, err
	}
	return c.loadProducts(ctx)
}

// Seed seeds both collections.
func (c *Catalog) Seed(ctx context.Context) error {
	if _, err := c.SeedCategories(ctx); err != nil {
		return err
	}
	_, err := c.SeedProducts(ctx)
	return err
}
