// Package screen holds the screen controllers. Each binds catalog
// operations to navigation and absorbs failures into display state, so a
// failed action shows a message instead of propagating.
package screen

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jacksmith/storefront/internal/nav"
	"github.com/jacksmith/storefront/internal/ops"
	"github.com/jacksmith/storefront/internal/storage"
)

// ImagePicker selects an image. ok is false when the user cancels, which
// leaves the current image unchanged.
type ImagePicker interface {
	Pick(ctx context.Context) (uri string, ok bool, err error)
}

// PickerFunc adapts a function to ImagePicker.
type PickerFunc func(ctx context.Context) (string, bool, error)

func (f PickerFunc) Pick(ctx context.Context) (string, bool, error) { return f(ctx) }

// App holds what every controller needs.
type App struct {
	Catalog *ops.Catalog
	Session *ops.Session
	Nav     *nav.Navigator
	Picker  ImagePicker
	Logger  *slog.Logger
}

// NewApp wires controllers to a store and navigator.
func NewApp(s *storage.Storage, n *nav.Navigator, picker ImagePicker) *App {
	return &App{
		Catalog: ops.NewCatalog(s),
		Session: ops.NewSession(s),
		Nav:     n,
		Picker:  picker,
		Logger:  s.Logger(),
	}
}

// Start attaches the navigator and routes from the splash screen to Home
// or Login according to the persisted login flag.
func (a *App) Start(ctx context.Context) nav.Screen {
	a.Nav.Attach()

	loggedIn, err := a.Session.LoggedIn(ctx)
	if err != nil {
		a.Logger.Warn("failed to read login flag, assuming logged out", "error", err)
	}
	dest := nav.LoginScreen
	if loggedIn {
		dest = nav.HomeScreen
	}
	if err := a.Nav.Replace(dest, nil); err != nil {
		a.Logger.Error("splash routing failed", "to", dest, "error", err)
	}
	cur, _ := a.Nav.Current()
	return cur.Screen
}

// Messages shown when an action fails.
const (
	MsgNotFound     = "That item no longer exists."
	MsgStorage      = "Could not save your changes. Please try again."
	MsgLoad         = "Could not load data."
	MsgBadLogin     = "Email or password is incorrect."
	MsgNavigation   = "Cannot open that screen."
	MsgImageFailure = "Could not pick an image."
)

// describe maps an operation error to a user message and logs it.
// Not-found is expected after concurrent edits and logs at debug.
func (a *App) describe(action string, err error) string {
	switch {
	case errors.Is(err, ops.ErrNotFound):
		a.Logger.Debug(action+": record missing", "error", err)
		return MsgNotFound
	case errors.Is(err, nav.ErrInvalidTransition), errors.Is(err, nav.ErrParamsMismatch):
		a.Logger.Error(action+": navigation refused", "error", err)
		return MsgNavigation
	default:
		a.Logger.Error(action+" failed", "error", err)
		return MsgStorage
	}
}

func (a *App) pickImage(ctx context.Context, current *string) (*string, string) {
	if a.Picker == nil {
		return current, ""
	}
	uri, ok, err := a.Picker.Pick(ctx)
	if err != nil {
		a.Logger.Warn("image picker failed", "error", err)
		return current, MsgImageFailure
	}
	if !ok || uri == "" {
		return current, ""
	}
	return &uri, ""
}
