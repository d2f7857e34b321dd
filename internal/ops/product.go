package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/storage"
)

// ProductChanges represents fields that can be updated on a product.
type ProductChanges struct {
	Name       *string
	Price      *string
	Image      **string // pointer to pointer to allow clearing the image
	CategoryID *string
}

// IsEmpty reports whether no field is set.
func (ch ProductChanges) IsEmpty() bool {
	return ch.Name == nil && ch.Price == nil && ch.Image == nil && ch.CategoryID == nil
}

// AddProduct creates a product under categoryID with a new id and appends
// it. An empty name or price creates nothing and returns a
// *ValidationError. The category is not required to exist.
func (c *Catalog) AddProduct(ctx context.Context, categoryID, name, price string, image *string) (*model.Product, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidatePrice(price, cfg.StrictPrice); err != nil {
		return nil, err
	}

	p := model.Product{
		ID:         c.newID(),
		CategoryID: categoryID,
		Name:       strings.TrimSpace(name),
		Price:      strings.TrimSpace(price),
		Image:      normalizeImage(image),
	}

	_, err = storage.Mutate(ctx, c.store, model.KeyProducts, func(products []model.Product) ([]model.Product, error) {
		for _, existing := range products {
			if existing.ID == p.ID {
				return nil, fmt.Errorf("product id %s already exists", p.ID)
			}
		}
		return append(products, p), nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("added product", "id", p.ID, "category", categoryID, "name", p.Name)
	return &p, nil
}

// UpdateProduct applies changes to an existing product, keeping its id
// and position.
func (c *Catalog) UpdateProduct(ctx context.Context, id string, changes ProductChanges) (*model.Product, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if changes.Name != nil {
		if err := ValidateName(*changes.Name); err != nil {
			return nil, err
		}
	}
	if changes.Price != nil {
		if err := ValidatePrice(*changes.Price, cfg.StrictPrice); err != nil {
			return nil, err
		}
	}

	var updated model.Product
	_, err = storage.Mutate(ctx, c.store, model.KeyProducts, func(products []model.Product) ([]model.Product, error) {
		for i := range products {
			p := &products[i]
			if p.ID != id {
				continue
			}
			if changes.Name != nil {
				p.Name = strings.TrimSpace(*changes.Name)
			}
			if changes.Price != nil {
				p.Price = strings.TrimSpace(*changes.Price)
			}
			if changes.Image != nil {
				p.Image = normalizeImage(*changes.Image)
			}
			if changes.CategoryID != nil {
				p.CategoryID = *changes.CategoryID
			}
			updated = *p
			return products, nil
		}
		return nil, notFound("product", id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product from the full collection.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	var removed model.Product
	_, err := storage.Mutate(ctx, c.store, model.KeyProducts, func(products []model.Product) ([]model.Product, error) {
		for i := range products {
			if products[i].ID == id {
				removed = products[i]
				return append(products[:i:i], products[i+1:]...), nil
			}
		}
		return nil, notFound("product", id)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("deleted product", "id", id)
	return &removed, nil
}
