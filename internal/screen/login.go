package screen

import (
	"context"
	"errors"

	"github.com/jacksmith/storefront/internal/nav"
	"github.com/jacksmith/storefront/internal/ops"
)

// Login is the login form.
type Login struct {
	app *App

	EmailError    string
	PasswordError string
	Message       string
}

// NewLogin returns an empty login form.
func NewLogin(app *App) *Login {
	return &Login{app: app}
}

// Submit validates and logs in. On success it replaces the login screen
// with Home and returns true; otherwise the error fields are set.
func (l *Login) Submit(ctx context.Context, email, password string) bool {
	l.EmailError, l.PasswordError, l.Message = "", "", ""

	err := l.app.Session.Login(ctx, email, password)
	if err != nil {
		var le *ops.LoginError
		switch {
		case errors.As(err, &le):
			l.EmailError = le.Email
			l.PasswordError = le.Password
		case errors.Is(err, ops.ErrBadCredentials):
			l.Message = MsgBadLogin
		default:
			l.Message = l.app.describe("login", err)
		}
		return false
	}

	if err := l.app.Nav.Replace(nav.HomeScreen, nil); err != nil {
		l.Message = l.app.describe("login", err)
		return false
	}
	return true
}
