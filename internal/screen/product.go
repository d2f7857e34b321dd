package screen

import (
	"context"
	"errors"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/nav"
	"github.com/jacksmith/storefront/internal/ops"
)

// ProductList lists the products of one category.
type ProductList struct {
	app *App

	CategoryID   string
	CategoryName string
	Products     []model.Product
	Message      string
}

// NewProductList reads the category from the current route's params.
func NewProductList(app *App) *ProductList {
	pl := &ProductList{app: app}
	route, _ := app.Nav.Current()
	if p, ok := nav.ParamsFor[nav.ProductScreenParams](route); ok {
		pl.CategoryID = p.CategoryID
		pl.CategoryName = p.CategoryName
	}
	return pl
}

// Mount seeds the products on first run and loads this category's.
func (pl *ProductList) Mount(ctx context.Context) {
	all, err := pl.app.Catalog.SeedProducts(ctx)
	if err != nil {
		pl.app.Logger.Error("failed to load products", "error", err)
		pl.Message = MsgLoad
		return
	}
	pl.Products = ops.FilterByCategory(all, pl.CategoryID)
}

// Refresh reloads this category's products.
func (pl *ProductList) Refresh(ctx context.Context) {
	products, err := pl.app.Catalog.ListProductsByCategory(ctx, pl.CategoryID)
	if err != nil {
		pl.app.Logger.Error("failed to load products", "error", err)
		pl.Message = MsgLoad
		return
	}
	pl.Products = products
}

// Add opens an empty product form for this category.
func (pl *ProductList) Add(ctx context.Context) {
	err := pl.app.Nav.Navigate(nav.EditProduct, nav.EditProductParams{CategoryID: pl.CategoryID})
	if err != nil {
		pl.Message = pl.app.describe("add product", err)
	}
}

// Edit opens the product form for an existing product.
func (pl *ProductList) Edit(ctx context.Context, id string) {
	for _, p := range pl.Products {
		if p.ID != id {
			continue
		}
		item := p
		err := pl.app.Nav.Navigate(nav.EditProduct, nav.EditProductParams{Item: &item, IsEditing: true, CategoryID: pl.CategoryID})
		if err != nil {
			pl.Message = pl.app.describe("edit product", err)
		}
		return
	}
	pl.Message = MsgNotFound
	pl.Refresh(ctx)
}

// Delete removes a product and reloads the list.
func (pl *ProductList) Delete(ctx context.Context, id string) {
	pl.Message = ""
	if _, err := pl.app.Catalog.DeleteProduct(ctx, id); err != nil {
		pl.Message = pl.app.describe("delete product", err)
	}
	pl.Refresh(ctx)
}

// ProductEdit is the add/edit product form.
type ProductEdit struct {
	app  *App
	item *model.Product

	CategoryID string
	Name       string
	Price      string
	Image      *string
	NameError  string
	PriceError string
	Message    string
}

// NewProductEdit reads the current route's params. Missing params, or a
// nil item, mean a new product.
func NewProductEdit(app *App) *ProductEdit {
	pe := &ProductEdit{app: app}
	route, _ := app.Nav.Current()
	p, ok := nav.ParamsFor[nav.EditProductParams](route)
	if !ok {
		return pe
	}
	pe.CategoryID = p.CategoryID
	if p.Item != nil {
		item := *p.Item
		pe.item = &item
		pe.Name = item.Name
		pe.Price = item.Price
		pe.Image = item.Image
		if pe.CategoryID == "" {
			pe.CategoryID = item.CategoryID
		}
	}
	return pe
}

// IsEditing reports whether an existing product is being edited.
func (pe *ProductEdit) IsEditing() bool {
	return pe.item != nil
}

// PickImage asks the picker for an image. Cancelling keeps the current one.
func (pe *ProductEdit) PickImage(ctx context.Context) {
	pe.Image, pe.Message = pe.app.pickImage(ctx, pe.Image)
}

// Save adds or updates the product and goes back to the product list.
func (pe *ProductEdit) Save(ctx context.Context) bool {
	pe.NameError, pe.PriceError, pe.Message = "", "", ""

	var err error
	if pe.item != nil {
		name, price, image := pe.Name, pe.Price, pe.Image
		_, err = pe.app.Catalog.UpdateProduct(ctx, pe.item.ID, ops.ProductChanges{
			Name:  &name,
			Price: &price,
			Image: &image,
		})
	} else {
		_, err = pe.app.Catalog.AddProduct(ctx, pe.CategoryID, pe.Name, pe.Price, pe.Image)
	}
	if err != nil {
		var ve *ops.ValidationError
		if errors.As(err, &ve) {
			switch ve.Field {
			case "price":
				pe.PriceError = ve.Message
			default:
				pe.NameError = ve.Message
			}
			return false
		}
		pe.Message = pe.app.describe("save product", err)
		if !errors.Is(err, ops.ErrNotFound) {
			return false
		}
	}

	pe.app.Nav.GoBack()
	return err == nil
}

// Cancel returns to the product list without saving.
func (pe *ProductEdit) Cancel() {
	pe.app.Nav.GoBack()
}
