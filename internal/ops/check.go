package ops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jacksmith/storefront/internal/index"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/storage"
)

// IssueType represents the type of integrity issue.
type IssueType string

const (
	IssueDuplicateID     IssueType = "duplicate_id"
	IssueInvalidID       IssueType = "invalid_id"
	IssueMissingRequired IssueType = "missing_required"
	IssueInvalidPrice    IssueType = "invalid_price"
	IssueOrphanProduct   IssueType = "orphan_product"
	IssueCorrupt         IssueType = "corrupt_collection"
)

// Issue represents a data integrity problem in the stored collections.
type Issue struct {
	Type       IssueType
	Collection string // "categories" or "products"
	ItemID     string
	Message    string
}

func (i Issue) Error() string {
	if i.ItemID == "" {
		return fmt.Sprintf("%s: %s - %s", i.Collection, i.Type, i.Message)
	}
	return fmt.Sprintf("%s %s: %s - %s", i.Collection, i.ItemID, i.Type, i.Message)
}

// Fix represents an auto-repair action taken.
type Fix struct {
	Type        IssueType
	Collection  string
	ItemID      string
	Description string
}

// Check inspects both collections for integrity issues.
// Invalid prices are only reported when strict_price is set.
func (c *Catalog) Check(ctx context.Context) ([]Issue, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	cats, catsCorrupt, err := loadForCheck[model.Category](ctx, c, model.KeyCategories)
	if err != nil {
		return nil, err
	}
	products, productsCorrupt, err := loadForCheck[model.Product](ctx, c, model.KeyProducts)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, ci := range []*Issue{catsCorrupt, productsCorrupt} {
		if ci != nil {
			issues = append(issues, *ci)
		}
	}
	ix := index.Build(cats, products)

	// Duplicate IDs
	for _, id := range ix.DuplicateCategories() {
		issues = append(issues, Issue{
			Type:       IssueDuplicateID,
			Collection: model.KeyCategories,
			ItemID:     id,
			Message:    "duplicate category ID",
		})
	}
	for _, id := range ix.DuplicateProducts() {
		issues = append(issues, Issue{
			Type:       IssueDuplicateID,
			Collection: model.KeyProducts,
			ItemID:     id,
			Message:    "duplicate product ID",
		})
	}

	// Invalid IDs and missing required fields
	for _, cat := range cats {
		if err := model.ValidateID(cat.ID); err != nil {
			issues = append(issues, Issue{
				Type:       IssueInvalidID,
				Collection: model.KeyCategories,
				ItemID:     cat.ID,
				Message:    "invalid category ID format",
			})
		}
		if strings.TrimSpace(cat.Name) == "" {
			issues = append(issues, Issue{
				Type:       IssueMissingRequired,
				Collection: model.KeyCategories,
				ItemID:     cat.ID,
				Message:    "category missing required field: name",
			})
		}
	}
	for _, p := range products {
		if err := model.ValidateID(p.ID); err != nil {
			issues = append(issues, Issue{
				Type:       IssueInvalidID,
				Collection: model.KeyProducts,
				ItemID:     p.ID,
				Message:    "invalid product ID format",
			})
		}
		if strings.TrimSpace(p.Name) == "" {
			issues = append(issues, Issue{
				Type:       IssueMissingRequired,
				Collection: model.KeyProducts,
				ItemID:     p.ID,
				Message:    "product missing required field: name",
			})
		}
		if err := ValidatePrice(p.Price, cfg.StrictPrice); err != nil {
			typ := IssueInvalidPrice
			if strings.TrimSpace(p.Price) == "" {
				typ = IssueMissingRequired
			}
			issues = append(issues, Issue{
				Type:       typ,
				Collection: model.KeyProducts,
				ItemID:     p.ID,
				Message:    err.Error(),
			})
		}
	}

	// Orphaned products. Unreadable categories would make every product
	// look orphaned, so the pass waits until they are readable again.
	if catsCorrupt != nil {
		return issues, nil
	}
	for _, id := range ix.Orphans() {
		cid, _ := ix.CategoryOf(id)
		issues = append(issues, Issue{
			Type:       IssueOrphanProduct,
			Collection: model.KeyProducts,
			ItemID:     id,
			Message:    fmt.Sprintf("references non-existent category: %s", cid),
		})
	}

	return issues, nil
}

// loadForCheck reads a collection for Check. A corrupt value yields an
// empty collection and an issue describing it.
func loadForCheck[T model.Record](ctx context.Context, c *Catalog, key string) ([]T, *Issue, error) {
	records, _, err := storage.Load[T](ctx, c.store, key)
	if err != nil {
		var ce *storage.CorruptError
		if !errors.As(err, &ce) {
			return nil, nil, err
		}
		return []T{}, &Issue{
			Type:       IssueCorrupt,
			Collection: key,
			Message:    fmt.Sprintf("stored value cannot be decoded: %v", ce.Err),
		}, nil
	}
	return records, nil, nil
}

// CheckAndFix repairs what can be repaired without guessing: later
// duplicates are dropped (the first occurrence wins, as in every listing)
// and orphaned products are removed. Returns the fixes applied.
//
// Corrupt collections are left untouched. When categories are corrupt,
// orphans are not removed since no category can be trusted to exist.
func (c *Catalog) CheckAndFix(ctx context.Context) ([]Fix, error) {
	var fixes []Fix

	catsCorrupt, err := isCorrupt[model.Category](ctx, c, model.KeyCategories)
	if err != nil {
		return nil, err
	}
	productsCorrupt, err := isCorrupt[model.Product](ctx, c, model.KeyProducts)
	if err != nil {
		return nil, err
	}
	switch {
	case productsCorrupt && catsCorrupt:
		c.logger.Warn("both collections are corrupt, nothing repaired")
		return fixes, nil
	case productsCorrupt:
		c.logger.Warn("products are corrupt, skipping product repair")
	case catsCorrupt:
		c.logger.Warn("categories are corrupt, skipping category and orphan repair")
		return c.dedupeProducts(ctx, fixes, nil)
	}

	cats, err := storage.Mutate(ctx, c.store, model.KeyCategories, func(cats []model.Category) ([]model.Category, error) {
		seen := make(map[string]bool, len(cats))
		kept := make([]model.Category, 0, len(cats))
		for _, cat := range cats {
			if seen[cat.ID] {
				fixes = append(fixes, Fix{
					Type:        IssueDuplicateID,
					Collection:  model.KeyCategories,
					ItemID:      cat.ID,
					Description: fmt.Sprintf("removed duplicate category %q", cat.Name),
				})
				continue
			}
			seen[cat.ID] = true
			kept = append(kept, cat)
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}

	if productsCorrupt {
		return fixes, nil
	}
	return c.dedupeProducts(ctx, fixes, model.NewCategorySet(cats))
}

func isCorrupt[T model.Record](ctx context.Context, c *Catalog, key string) (bool, error) {
	_, _, err := storage.Load[T](ctx, c.store, key)
	if errors.Is(err, storage.ErrCorrupt) {
		return true, nil
	}
	return false, err
}

// dedupeProducts drops later duplicate products, and orphans too when set
// is non-nil.
func (c *Catalog) dedupeProducts(ctx context.Context, fixes []Fix, set model.CategorySet) ([]Fix, error) {
	_, err := storage.Mutate(ctx, c.store, model.KeyProducts, func(products []model.Product) ([]model.Product, error) {
		seen := make(map[string]bool, len(products))
		kept := make([]model.Product, 0, len(products))
		for i := range products {
			p := &products[i]
			if seen[p.ID] {
				fixes = append(fixes, Fix{
					Type:        IssueDuplicateID,
					Collection:  model.KeyProducts,
					ItemID:      p.ID,
					Description: fmt.Sprintf("removed duplicate product %q", p.Name),
				})
				continue
			}
			seen[p.ID] = true
			if set != nil && model.IsOrphaned(p, set) {
				fixes = append(fixes, Fix{
					Type:        IssueOrphanProduct,
					Collection:  model.KeyProducts,
					ItemID:      p.ID,
					Description: fmt.Sprintf("removed orphan product %q (category %s)", p.Name, p.CategoryID),
				})
				continue
			}
			kept = append(kept, *p)
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}

	return fixes, nil
}
