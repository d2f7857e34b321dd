package nav

import (
	"fmt"

	"github.com/jacksmith/storefront/internal/model"
)

// Params is the closed set of parameter types a screen can receive.
type Params interface {
	// Screen returns the screen these params belong to.
	Screen() Screen
	isParams()
}

// CategoryScreenParams is passed to CategoryScreen. A nil Item means a
// new category is being created.
type CategoryScreenParams struct {
	Item      *model.Category
	IsEditing bool
}

func (CategoryScreenParams) Screen() Screen { return CategoryScreen }
func (CategoryScreenParams) isParams()      {}

// ProductScreenParams is passed to ProductScreen.
type ProductScreenParams struct {
	CategoryID   string
	CategoryName string
}

func (ProductScreenParams) Screen() Screen { return ProductScreen }
func (ProductScreenParams) isParams()      {}

// EditProductParams is passed to EditProduct. A nil Item means a new
// product is being created under CategoryID.
type EditProductParams struct {
	Item       *model.Product
	IsEditing  bool
	CategoryID string
}

func (EditProductParams) Screen() Screen { return EditProduct }
func (EditProductParams) isParams()      {}

// checkParams verifies params may be delivered to screen. Screens without
// a params type accept only nil; ProductScreen requires its params.
func checkParams(screen Screen, params Params) error {
	if params == nil {
		if screen == ProductScreen {
			return fmt.Errorf("%w: %s requires ProductScreenParams", ErrParamsMismatch, screen)
		}
		return nil
	}
	if params.Screen() != screen {
		return fmt.Errorf("%w: %T sent to %s", ErrParamsMismatch, params, screen)
	}
	return nil
}

// ParamsFor returns the route's params as T. The second result is false
// when the route carries no params or params of another type, which
// callers treat as "create new".
func ParamsFor[T Params](r Route) (T, bool) {
	p, ok := r.Params.(T)
	return p, ok
}
