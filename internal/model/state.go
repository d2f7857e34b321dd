package model

// ProductState represents the derived state of a product.
type ProductState string

const (
	ProductStateLinked   ProductState = "linked"
	ProductStateOrphaned ProductState = "orphan"
)

// CategorySet is the set of category IDs known to exist.
type CategorySet map[string]bool

// NewCategorySet builds a CategorySet from a category collection.
func NewCategorySet(categories []Category) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c.ID] = true
	}
	return set
}

// ComputeProductState returns the derived state for a product.
// A product whose category has been deleted stays in the collection but is
// orphaned: no category list will ever show it.
func ComputeProductState(p *Product, categories CategorySet) ProductState {
	if categories[p.CategoryID] {
		return ProductStateLinked
	}
	return ProductStateOrphaned
}

// IsOrphaned returns true if the product's category does not exist.
func IsOrphaned(p *Product, categories CategorySet) bool {
	return ComputeProductState(p, categories) == ProductStateOrphaned
}
