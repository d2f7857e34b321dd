package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jacksmith/storefront/internal/cli"
	"github.com/jacksmith/storefront/internal/ops"
	"github.com/jacksmith/storefront/internal/storage"
	"github.com/spf13/cobra"
)

// workspace is the store in the current directory plus what commands
// build on top of it.
type workspace struct {
	store   *storage.Storage
	catalog *ops.Catalog
	session *ops.Session
	config  *storage.Config
	logger  *slog.Logger
}

// openWorkspace opens .storefront/ in the current directory. The user
// config is read first so the store logs at the configured level.
func openWorkspace() (*workspace, error) {
	cfg, err := storage.LoadConfigFile(storage.UserConfigPath("."))
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.SlogLevel())

	s, err := storage.Open(".", storage.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &workspace{
		store:   s,
		catalog: ops.NewCatalog(s),
		session: ops.NewSession(s),
		config:  cfg,
		logger:  logger,
	}, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

var errNotLoggedIn = &cli.UsageError{
	Message: "not logged in",
	Hint:    "Run 'storefront login' first.",
}

// requireLogin returns errNotLoggedIn unless the login flag is set.
func (w *workspace) requireLogin(ctx context.Context) error {
	ok, err := w.session.LoggedIn(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errNotLoggedIn
	}
	return nil
}

// openCatalog opens the workspace for a catalog command: it must be logged
// in, and the collections are seeded on first use like the app does when
// its lists first mount.
func openCatalog(ctx context.Context) (*workspace, error) {
	w, err := openWorkspace()
	if err != nil {
		return nil, err
	}
	if err := w.requireLogin(ctx); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.catalog.Seed(ctx); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// newLogger returns a text logger on stderr. --verbose lowers the level to
// debug.
func newLogger(level slog.Level) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// commandContext returns the command's context. Tests call run functions
// with a nil command.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// closeWith closes w and keeps the first error.
func closeWith(w *workspace, err *error) {
	if cerr := w.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// isNoChange reports whether an interactive edit was saved unchanged.
func isNoChange(err error) bool {
	return errors.Is(err, cli.ErrUnchanged)
}
