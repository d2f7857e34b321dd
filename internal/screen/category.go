package screen

import (
	"context"
	"errors"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/nav"
	"github.com/jacksmith/storefront/internal/ops"
)

// CategoryEdit is the add/edit category form.
type CategoryEdit struct {
	app  *App
	item *model.Category

	Name      string
	Image     *string
	NameError string
	Message   string
}

// NewCategoryEdit reads the current route's params. Missing params, or a
// nil item, mean a new category.
func NewCategoryEdit(app *App) *CategoryEdit {
	ce := &CategoryEdit{app: app}
	route, _ := app.Nav.Current()
	if p, ok := nav.ParamsFor[nav.CategoryScreenParams](route); ok && p.Item != nil {
		item := *p.Item
		ce.item = &item
		ce.Name = item.Name
		ce.Image = item.Image
	}
	return ce
}

// IsEditing reports whether an existing category is being edited.
func (ce *CategoryEdit) IsEditing() bool {
	return ce.item != nil
}

// PickImage asks the picker for an image. Cancelling keeps the current one.
func (ce *CategoryEdit) PickImage(ctx context.Context) {
	ce.Image, ce.Message = ce.app.pickImage(ctx, ce.Image)
}

// Save adds or updates the category and returns to Home. On failure the
// form stays open with its error fields set.
func (ce *CategoryEdit) Save(ctx context.Context) bool {
	ce.NameError, ce.Message = "", ""

	var err error
	if ce.item != nil {
		_, err = ce.app.Catalog.UpdateCategory(ctx, ce.item.ID, ce.Name, ce.Image)
	} else {
		_, err = ce.app.Catalog.AddCategory(ctx, ce.Name, ce.Image)
	}
	if err != nil {
		var ve *ops.ValidationError
		if errors.As(err, &ve) {
			ce.NameError = ve.Message
			return false
		}
		ce.Message = ce.app.describe("save category", err)
		if !errors.Is(err, ops.ErrNotFound) {
			return false
		}
		// The category was deleted meanwhile; nothing left to edit.
	}

	if err := ce.app.Nav.Navigate(nav.HomeScreen, nil); err != nil {
		ce.Message = ce.app.describe("save category", err)
		return false
	}
	return err == nil
}

// Cancel returns to Home without saving.
func (ce *CategoryEdit) Cancel() {
	ce.app.Nav.GoBack()
}
