package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/storage"
)

// DeleteResult reports what a category delete removed.
type DeleteResult struct {
	Category model.Category
	// RemovedProducts lists products removed by a cascade delete.
	RemovedProducts []string
	// OrphanedProducts lists products left pointing at the deleted category.
	OrphanedProducts []string
}

// AddCategory creates a category with a new id and appends it.
// An empty name creates nothing and returns a *ValidationError.
func (c *Catalog) AddCategory(ctx context.Context, name string, image *string) (*model.Category, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	cat := model.Category{
		ID:    c.newID(),
		Name:  strings.TrimSpace(name),
		Image: normalizeImage(image),
	}

	_, err := storage.Mutate(ctx, c.store, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
		for _, existing := range cats {
			if existing.ID == cat.ID {
				return nil, fmt.Errorf("category id %s already exists", cat.ID)
			}
		}
		return append(cats, cat), nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("added category", "id", cat.ID, "name", cat.Name)
	return &cat, nil
}

// UpdateCategory replaces the name and image of an existing category,
// keeping its id and position.
func (c *Catalog) UpdateCategory(ctx context.Context, id, name string, image *string) (*model.Category, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var updated model.Category
	_, err := storage.Mutate(ctx, c.store, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
		for i := range cats {
			if cats[i].ID != id {
				continue
			}
			cats[i].Name = strings.TrimSpace(name)
			cats[i].Image = normalizeImage(image)
			updated = cats[i]
			return cats, nil
		}
		return nil, notFound("category", id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category. Its products are left in place
// unless the user config sets on_delete_category to cascade.
func (c *Catalog) DeleteCategory(ctx context.Context, id string) (*DeleteResult, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{}
	_, err = storage.Mutate(ctx, c.store, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
		for i := range cats {
			if cats[i].ID == id {
				result.Category = cats[i]
				return append(cats[:i:i], cats[i+1:]...), nil
			}
		}
		return nil, notFound("category", id)
	})
	if err != nil {
		return nil, err
	}

	if cfg.OnDeleteCategory == storage.DeleteCascade {
		_, err = storage.Mutate(ctx, c.store, model.KeyProducts, func(products []model.Product) ([]model.Product, error) {
			kept := make([]model.Product, 0, len(products))
			for _, p := range products {
				if p.CategoryID == id {
					result.RemovedProducts = append(result.RemovedProducts, p.ID)
					continue
				}
				kept = append(kept, p)
			}
			return kept, nil
		})
		if err != nil {
			return nil, fmt.Errorf("category %s deleted but its products were not: %w", id, err)
		}
	} else {
		products, err := c.loadProducts(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			if p.CategoryID == id {
				result.OrphanedProducts = append(result.OrphanedProducts, p.ID)
			}
		}
	}

	c.logger.Debug("deleted category", "id", id,
		"removed_products", len(result.RemovedProducts),
		"orphaned_products", len(result.OrphanedProducts))
	return result, nil
}
