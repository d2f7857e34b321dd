package nav

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Listener is called with the new top route after every change.
type Listener func(Route)

// Navigator owns the screen stack. It is created at app start and handed
// to the screen controllers. Until Attach is called, and after Detach,
// every operation is a no-op.
type Navigator struct {
	mu        sync.Mutex
	ready     bool
	stack     []Route
	seq       int
	initial   Screen
	logger    *slog.Logger
	listeners map[int]Listener
	nextLID   int
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger for no-op and transition debug output.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithInitialScreen sets the screen placed on the stack by the first
// Attach. Defaults to Splashscreen.
func WithInitialScreen(s Screen) Option {
	return func(n *Navigator) { n.initial = s }
}

// New returns a detached Navigator.
func New(opts ...Option) *Navigator {
	n := &Navigator{
		initial:   Splashscreen,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Attach marks the navigator ready. The first Attach places the initial
// screen on the stack.
func (n *Navigator) Attach() {
	n.mu.Lock()
	n.ready = true
	changed := len(n.stack) == 0
	if changed {
		n.stack = []Route{n.newRoute(n.initial, nil)}
	}
	top := n.stack[len(n.stack)-1]
	n.mu.Unlock()

	if changed {
		n.notify(top)
	}
}

// Detach marks the navigator not ready. The stack is kept.
func (n *Navigator) Detach() {
	n.mu.Lock()
	n.ready = false
	n.mu.Unlock()
}

// Ready reports whether the navigator is attached.
func (n *Navigator) Ready() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ready
}

// Navigate moves to screen. If screen is already on the stack the stack
// is popped back to it, replacing its params when params is non-nil.
// Otherwise a new route is pushed, subject to the transition table.
func (n *Navigator) Navigate(screen Screen, params Params) error {
	n.mu.Lock()
	if !n.ready {
		n.mu.Unlock()
		n.logger.Debug("navigator not ready, ignoring navigate", "screen", screen)
		return nil
	}
	if err := checkParams(screen, params); err != nil {
		n.mu.Unlock()
		return err
	}

	for i := len(n.stack) - 1; i >= 0; i-- {
		if n.stack[i].Screen != screen {
			continue
		}
		n.stack = n.stack[:i+1]
		if params != nil {
			n.stack[i].Params = params
		}
		top := n.stack[i]
		n.mu.Unlock()
		n.logger.Debug("navigate back", "screen", screen, "depth", i+1)
		n.notify(top)
		return nil
	}

	from := n.stack[len(n.stack)-1].Screen
	if !CanTransition(from, screen) {
		n.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, screen)
	}
	top := n.newRoute(screen, params)
	n.stack = append(n.stack, top)
	depth := len(n.stack)
	n.mu.Unlock()

	n.logger.Debug("navigate", "from", from, "to", screen, "depth", depth)
	n.notify(top)
	return nil
}

// Replace swaps the top route for screen, so the replaced screen cannot be
// reached by GoBack.
func (n *Navigator) Replace(screen Screen, params Params) error {
	n.mu.Lock()
	if !n.ready {
		n.mu.Unlock()
		n.logger.Debug("navigator not ready, ignoring replace", "screen", screen)
		return nil
	}
	if err := checkParams(screen, params); err != nil {
		n.mu.Unlock()
		return err
	}

	from := n.stack[len(n.stack)-1].Screen
	if !CanTransition(from, screen) {
		n.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, screen)
	}
	top := n.newRoute(screen, params)
	n.stack[len(n.stack)-1] = top
	n.mu.Unlock()

	n.logger.Debug("replace", "from", from, "to", screen)
	n.notify(top)
	return nil
}

// Reset clears history to a single route for screen. Any screen may be
// the target.
func (n *Navigator) Reset(screen Screen, params Params) error {
	n.mu.Lock()
	if !n.ready {
		n.mu.Unlock()
		n.logger.Debug("navigator not ready, ignoring reset", "screen", screen)
		return nil
	}
	if err := checkParams(screen, params); err != nil {
		n.mu.Unlock()
		return err
	}
	top := n.newRoute(screen, params)
	n.stack = []Route{top}
	n.mu.Unlock()

	n.logger.Debug("reset", "to", screen)
	n.notify(top)
	return nil
}

// GoBack pops the top route. It reports false, and does nothing, at the
// root or when not ready.
func (n *Navigator) GoBack() bool {
	n.mu.Lock()
	if !n.ready {
		n.mu.Unlock()
		n.logger.Debug("navigator not ready, ignoring back")
		return false
	}
	if len(n.stack) <= 1 {
		n.mu.Unlock()
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	top := n.stack[len(n.stack)-1]
	n.mu.Unlock()

	n.notify(top)
	return true
}

// Current returns the top route. The second result is false before the
// first Attach.
func (n *Navigator) Current() (Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		return Route{}, false
	}
	return n.stack[len(n.stack)-1], true
}

// Stack returns a copy of the routes, root first.
func (n *Navigator) Stack() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.stack...)
}

// Depth returns the number of routes on the stack.
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Subscribe registers fn for route changes and returns a function that
// removes it.
func (n *Navigator) Subscribe(fn Listener) func() {
	n.mu.Lock()
	id := n.nextLID
	n.nextLID++
	n.listeners[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// newRoute builds a route with a fresh key. Callers hold n.mu.
func (n *Navigator) newRoute(screen Screen, params Params) Route {
	n.seq++
	return Route{Key: fmt.Sprintf("%s-%d", screen, n.seq), Screen: screen, Params: params}
}

func (n *Navigator) notify(top Route) {
	n.mu.Lock()
	listeners := make([]Listener, 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(top)
	}
}
