package index

import (
	"testing"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/stretchr/testify/assert"
)

// Helper to create a minimal product for testing
func makeProduct(id, categoryID string) model.Product {
	return model.Product{ID: id, CategoryID: categoryID, Name: "Product " + id, Price: "10"}
}

func makeCategory(id string) model.Category {
	return model.Category{ID: id, Name: "Category " + id}
}

func TestBuild_Empty(t *testing.T) {
	ix := Build(nil, nil)

	assert.Empty(t, ix.Products("1"))
	assert.Zero(t, ix.Count("1"))
	assert.Empty(t, ix.Orphans())
	assert.Empty(t, ix.MissingCategories())
	assert.False(t, ix.HasCategory("1"))
	assert.False(t, ix.HasProduct("p1"))
}

func TestBuild_Defaults(t *testing.T) {
	ix := Build(model.DefaultCategories(), model.DefaultProducts())

	assert.Empty(t, ix.Orphans(), "seed data has no orphans")
	assert.Empty(t, ix.DuplicateCategories())
	assert.Empty(t, ix.DuplicateProducts())

	total := 0
	for _, c := range model.DefaultCategories() {
		total += ix.Count(c.ID)
	}
	assert.Equal(t, len(model.DefaultProducts()), total)
}

func TestProducts_KeepsCollectionOrder(t *testing.T) {
	ix := Build(
		[]model.Category{makeCategory("1"), makeCategory("2")},
		[]model.Product{
			makeProduct("c", "1"),
			makeProduct("a", "2"),
			makeProduct("b", "1"),
		},
	)

	assert.Equal(t, []string{"c", "b"}, ix.Products("1"))
	assert.Equal(t, []string{"a"}, ix.Products("2"))
	assert.Equal(t, 2, ix.Count("1"))

	cid, ok := ix.CategoryOf("a")
	assert.True(t, ok)
	assert.Equal(t, "2", cid)

	_, ok = ix.CategoryOf("zz")
	assert.False(t, ok)
}

func TestProducts_ReturnsCopy(t *testing.T) {
	ix := Build([]model.Category{makeCategory("1")}, []model.Product{makeProduct("p", "1")})

	got := ix.Products("1")
	got[0] = "mutated"

	assert.Equal(t, []string{"p"}, ix.Products("1"))
}

func TestOrphans(t *testing.T) {
	ix := Build(
		[]model.Category{makeCategory("1")},
		[]model.Product{
			makeProduct("p1", "1"),
			makeProduct("p2", "9"),
			makeProduct("p3", "7"),
			makeProduct("p4", "9"),
		},
	)

	assert.Equal(t, []string{"p2", "p3", "p4"}, ix.Orphans())
	assert.Equal(t, []string{"7", "9"}, ix.MissingCategories())
	assert.True(t, ix.IsOrphan("p2"))
	assert.False(t, ix.IsOrphan("p1"))
	assert.False(t, ix.IsOrphan("missing"))

	// Orphans are still indexed under the category they reference.
	assert.Equal(t, []string{"p2", "p4"}, ix.Products("9"))
}

func TestDuplicates(t *testing.T) {
	ix := Build(
		[]model.Category{makeCategory("1"), makeCategory("1"), makeCategory("1")},
		[]model.Product{
			makeProduct("p", "1"),
			makeProduct("p", "2"),
		},
	)

	assert.Equal(t, []string{"1"}, ix.DuplicateCategories())
	assert.Equal(t, []string{"p"}, ix.DuplicateProducts())

	// First record wins.
	cid, _ := ix.CategoryOf("p")
	assert.Equal(t, "1", cid)
	assert.Equal(t, 1, ix.Count("1"))
	assert.Zero(t, ix.Count("2"))
}
