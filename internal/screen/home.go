package screen

import (
	"context"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/nav"
)

// Home lists categories.
type Home struct {
	app *App

	Categories []model.Category
	Message    string
}

// NewHome returns the home controller. Call Mount before use.
func NewHome(app *App) *Home {
	return &Home{app: app}
}

// Mount seeds the categories on first run and loads them.
func (h *Home) Mount(ctx context.Context) {
	cats, err := h.app.Catalog.SeedCategories(ctx)
	if err != nil {
		h.app.Logger.Error("failed to load categories", "error", err)
		h.Message = MsgLoad
		return
	}
	h.Categories = cats
}

// Refresh reloads the categories.
func (h *Home) Refresh(ctx context.Context) {
	cats, err := h.app.Catalog.ListCategories(ctx)
	if err != nil {
		h.app.Logger.Error("failed to load categories", "error", err)
		h.Message = MsgLoad
		return
	}
	h.Categories = cats
}

func (h *Home) find(id string) (model.Category, bool) {
	for _, c := range h.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// OpenCategory shows the products of a category.
func (h *Home) OpenCategory(ctx context.Context, id string) {
	cat, ok := h.find(id)
	if !ok {
		h.Message = MsgNotFound
		h.Refresh(ctx)
		return
	}
	err := h.app.Nav.Navigate(nav.ProductScreen, nav.ProductScreenParams{CategoryID: cat.ID, CategoryName: cat.Name})
	if err != nil {
		h.Message = h.app.describe("open category", err)
	}
}

// EditCategory opens the category form for an existing category.
func (h *Home) EditCategory(ctx context.Context, id string) {
	cat, ok := h.find(id)
	if !ok {
		h.Message = MsgNotFound
		h.Refresh(ctx)
		return
	}
	err := h.app.Nav.Navigate(nav.CategoryScreen, nav.CategoryScreenParams{Item: &cat, IsEditing: true})
	if err != nil {
		h.Message = h.app.describe("edit category", err)
	}
}

// AddCategory opens an empty category form.
func (h *Home) AddCategory(ctx context.Context) {
	if err := h.app.Nav.Navigate(nav.CategoryScreen, nav.CategoryScreenParams{}); err != nil {
		h.Message = h.app.describe("add category", err)
	}
}

// DeleteCategory deletes a category and reloads the list.
func (h *Home) DeleteCategory(ctx context.Context, id string) {
	h.Message = ""
	if _, err := h.app.Catalog.DeleteCategory(ctx, id); err != nil {
		h.Message = h.app.describe("delete category", err)
	}
	h.Refresh(ctx)
}

// Logout clears the login flag and resets navigation to the login screen.
func (h *Home) Logout(ctx context.Context) {
	if err := h.app.Session.Logout(ctx); err != nil {
		h.Message = h.app.describe("logout", err)
		return
	}
	if err := h.app.Nav.Reset(nav.LoginScreen, nil); err != nil {
		h.Message = h.app.describe("logout", err)
	}
}
