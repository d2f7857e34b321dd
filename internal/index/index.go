// Package index provides the category to product relation for storefront.
package index

import (
	"sort"

	"github.com/jacksmith/storefront/internal/model"
)

// Index relates categories to the products that reference them.
// Edges go from a product to its category, with a reverse edge from the
// category to each of its products.
type Index struct {
	// productsOf maps a category ID to its product IDs, in collection order
	productsOf map[string][]string
	// categoryOf maps a product ID to the category ID it references
	categoryOf map[string]string
	// categories tracks all known category IDs
	categories map[string]bool
	// orphans lists product IDs whose category does not exist
	orphans []string

	dupCategories []string
	dupProducts   []string
}

// Build constructs an index from the two collections. When an ID appears
// more than once the first record wins and the ID is reported by
// DuplicateCategories or DuplicateProducts.
func Build(categories []model.Category, products []model.Product) *Index {
	ix := &Index{
		productsOf: make(map[string][]string),
		categoryOf: make(map[string]string),
		categories: make(map[string]bool),
	}

	for _, c := range categories {
		if ix.categories[c.ID] {
			ix.dupCategories = appendOnce(ix.dupCategories, c.ID)
			continue
		}
		ix.categories[c.ID] = true
	}

	for _, p := range products {
		if _, seen := ix.categoryOf[p.ID]; seen {
			ix.dupProducts = appendOnce(ix.dupProducts, p.ID)
			continue
		}
		ix.categoryOf[p.ID] = p.CategoryID
		ix.productsOf[p.CategoryID] = append(ix.productsOf[p.CategoryID], p.ID)
		if !ix.categories[p.CategoryID] {
			ix.orphans = append(ix.orphans, p.ID)
		}
	}

	return ix
}

func appendOnce(list []string, id string) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

// Products returns the product IDs that reference the given category.
// Returns empty slice if none do.
func (ix *Index) Products(categoryID string) []string {
	ids := ix.productsOf[categoryID]
	if ids == nil {
		return []string{}
	}
	// Return a copy to prevent mutation
	result := make([]string, len(ids))
	copy(result, ids)
	return result
}

// Count returns the number of products referencing the category.
func (ix *Index) Count(categoryID string) int {
	return len(ix.productsOf[categoryID])
}

// CategoryOf returns the category a product references.
func (ix *Index) CategoryOf(productID string) (string, bool) {
	cid, ok := ix.categoryOf[productID]
	return cid, ok
}

// HasCategory returns true if the category exists.
func (ix *Index) HasCategory(id string) bool {
	return ix.categories[id]
}

// HasProduct returns true if the product exists.
func (ix *Index) HasProduct(id string) bool {
	_, ok := ix.categoryOf[id]
	return ok
}

// IsOrphan returns true if the product exists and its category does not.
func (ix *Index) IsOrphan(productID string) bool {
	cid, ok := ix.categoryOf[productID]
	return ok && !ix.categories[cid]
}

// Orphans returns product IDs whose category does not exist, in
// collection order.
func (ix *Index) Orphans() []string {
	result := make([]string, len(ix.orphans))
	copy(result, ix.orphans)
	return result
}

// MissingCategories returns the referenced category IDs that do not exist
// (sorted for deterministic output).
func (ix *Index) MissingCategories() []string {
	result := []string{}
	for cid := range ix.productsOf {
		if !ix.categories[cid] {
			result = append(result, cid)
		}
	}
	sort.Strings(result)
	return result
}

// DuplicateCategories returns category IDs that appear more than once.
func (ix *Index) DuplicateCategories() []string {
	return append([]string{}, ix.dupCategories...)
}

// DuplicateProducts returns product IDs that appear more than once.
func (ix *Index) DuplicateProducts() []string {
	return append([]string{}, ix.dupProducts...)
}
