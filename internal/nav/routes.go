// Package nav is the navigation controller: a screen stack with typed
// per-screen parameters and a fixed transition table.
package nav

import (
	"errors"
	"fmt"
	"strings"
)

// Screen identifies a screen in the app.
type Screen string

const (
	Splashscreen   Screen = "Splashscreen"
	LoginScreen    Screen = "LoginScreen"
	HomeScreen     Screen = "HomeScreen"
	CategoryScreen Screen = "CategoryScreen"
	ProductScreen  Screen = "ProductScreen"
	EditProduct    Screen = "EditProduct"
)

// Screens lists every screen in declaration order.
var Screens = []Screen{Splashscreen, LoginScreen, HomeScreen, CategoryScreen, ProductScreen, EditProduct}

// ParseScreen resolves a screen name, case-insensitively.
func ParseScreen(name string) (Screen, error) {
	for _, s := range Screens {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown screen %q", name)
}

var (
	// ErrInvalidTransition is returned for a move the transition table
	// does not allow.
	ErrInvalidTransition = errors.New("invalid screen transition")

	// ErrParamsMismatch is returned when params do not belong to the
	// destination screen.
	ErrParamsMismatch = errors.New("params do not match screen")
)

// transitions lists the screens reachable from each screen by Navigate
// or Replace. Reset is not restricted.
var transitions = map[Screen][]Screen{
	Splashscreen:   {LoginScreen, HomeScreen},
	LoginScreen:    {HomeScreen},
	HomeScreen:     {CategoryScreen, ProductScreen},
	CategoryScreen: {HomeScreen},
	ProductScreen:  {EditProduct},
	EditProduct:    {ProductScreen},
}

// CanTransition reports whether the table allows from -> to.
func CanTransition(from, to Screen) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Route is one entry on the navigation stack.
type Route struct {
	Key    string
	Screen Screen
	Params Params
}
