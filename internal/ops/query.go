package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/jacksmith/storefront/internal/index"
	"github.com/jacksmith/storefront/internal/model"
)

// AmbiguousIDError indicates an id reference matched more than one record.
type AmbiguousIDError struct {
	Kind    string
	Ref     string
	Matches []string
}

func (e *AmbiguousIDError) Error() string {
	return fmt.Sprintf("%s %q is ambiguous, matches: %s", e.Kind, e.Ref, strings.Join(e.Matches, ", "))
}

// ListCategories returns every category in insertion order.
func (c *Catalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	return c.loadCategories(ctx)
}

// ListProducts returns every product in insertion order, orphans included.
func (c *Catalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	return c.loadProducts(ctx)
}

// ListProductsByCategory returns exactly the products whose categoryId is
// categoryID, in insertion order.
func (c *Catalog) ListProductsByCategory(ctx context.Context, categoryID string) ([]model.Product, error) {
	products, err := c.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCategory(products, categoryID), nil
}

// FilterByCategory returns the products whose categoryId matches.
func FilterByCategory(products []model.Product, categoryID string) []model.Product {
	result := []model.Product{}
	for _, p := range products {
		if p.CategoryID == categoryID {
			result = append(result, p)
		}
	}
	return result
}

// GetCategory returns the category with the given id or a reference
// matching its short form.
func (c *Catalog) GetCategory(ctx context.Context, ref string) (*model.Category, error) {
	cats, err := c.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	i, err := resolve(len(cats), func(i int) string { return cats[i].ID }, "category", ref)
	if err != nil {
		return nil, err
	}
	cat := cats[i]
	return &cat, nil
}

// GetProduct returns the product with the given id or a reference
// matching its short form.
func (c *Catalog) GetProduct(ctx context.Context, ref string) (*model.Product, error) {
	products, err := c.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	i, err := resolve(len(products), func(i int) string { return products[i].ID }, "product", ref)
	if err != nil {
		return nil, err
	}
	p := products[i]
	return &p, nil
}

// resolve finds the index whose id matches ref exactly, else the single
// id that ref matches by short form.
func resolve(n int, idAt func(int) string, kind, ref string) (int, error) {
	ref = model.NormalizeID(ref)
	for i := 0; i < n; i++ {
		if idAt(i) == ref {
			return i, nil
		}
	}

	found := -1
	var matches []string
	for i := 0; i < n; i++ {
		if model.MatchID(idAt(i), ref) {
			found = i
			matches = append(matches, idAt(i))
		}
	}
	switch len(matches) {
	case 0:
		return -1, notFound(kind, ref)
	case 1:
		return found, nil
	default:
		return -1, &AmbiguousIDError{Kind: kind, Ref: ref, Matches: matches}
	}
}

// CategorySummary is a category with its product count.
type CategorySummary struct {
	model.Category
	Products int
}

// CategorySummaries returns every category with the number of products
// filed under it, in insertion order.
func (c *Catalog) CategorySummaries(ctx context.Context) ([]CategorySummary, error) {
	cats, err := c.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	products, err := c.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	ix := index.Build(cats, products)
	summaries := make([]CategorySummary, 0, len(cats))
	for _, cat := range cats {
		summaries = append(summaries, CategorySummary{Category: cat, Products: ix.Count(cat.ID)})
	}
	return summaries, nil
}

// ProductView is a product with its derived state and category name.
type ProductView struct {
	model.Product
	State        model.ProductState
	CategoryName string
}

// ProductViews returns every product with its derived state. Orphans have
// an empty CategoryName.
func (c *Catalog) ProductViews(ctx context.Context) ([]ProductView, error) {
	cats, err := c.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	products, err := c.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(cats))
	for _, cat := range cats {
		if _, ok := names[cat.ID]; !ok {
			names[cat.ID] = cat.Name
		}
	}
	set := model.NewCategorySet(cats)

	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, ProductView{
			Product:      products[i],
			State:        model.ComputeProductState(&products[i], set),
			CategoryName: names[products[i].CategoryID],
		})
	}
	return views, nil
}
