package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jacksmith/storefront/internal/cli"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/ops"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the storefront",
	Long: `Log in with an email and password.

The password is prompted for when --password is not given and stdin is a
terminal. Passwords must be at least 8 characters.

Any well-formed email and password is accepted unless .storefront.yaml sets
both email and password_hash; then only those credentials work. Use
'storefront hash-password' to produce a password_hash.

Examples:
  storefront login --email shop@example.com
  storefront login --email shop@example.com --password hunter22`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace and login status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for password_hash in .storefront.yaml",
	Args:  cobra.NoArgs,
	RunE:  runHashPassword,
}

var (
	loginEmail    string
	loginPassword string
	hashPassword  string
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted if omitted)")
	hashPasswordCmd.Flags().StringVar(&hashPassword, "password", "", "password to hash (prompted if omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

// readPassword returns flagValue, or prompts for it without echo when stdin
// is a terminal.
func readPassword(flagValue string) (string, error) {
	if flagValue != "" || !cli.IsTerminal(os.Stdin) {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func runLogin(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	password, err := readPassword(loginPassword)
	if err != nil {
		return err
	}
	if err := w.session.Login(ctx, loginEmail, password); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", strings.TrimSpace(loginEmail))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) (err error) {
	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	if err := w.session.Logout(commandContext(cmd)); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	loggedIn, err := w.session.LoggedIn(ctx)
	if err != nil {
		return err
	}
	cats, err := w.catalog.ListCategories(ctx)
	if err != nil {
		return err
	}
	views, err := w.catalog.ProductViews(ctx)
	if err != nil {
		return err
	}
	orphans := 0
	for _, v := range views {
		if v.State == model.ProductStateOrphaned {
			orphans++
		}
	}

	login := cli.Yellow("logged out")
	if loggedIn {
		login = cli.Green("logged in")
	}

	fmt.Printf("Workspace:  %s (%s backend)\n", w.store.DataPath(), w.store.Backend())
	fmt.Printf("Session:    %s\n", login)
	fmt.Printf("Categories: %d\n", len(cats))
	if orphans > 0 {
		fmt.Printf("Products:   %d (%s)\n", len(views), cli.Yellow(fmt.Sprintf("%d orphaned", orphans)))
	} else {
		fmt.Printf("Products:   %d\n", len(views))
	}
	fmt.Printf("On delete:  %s\n", w.config.OnDeleteCategory)
	return nil
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	password, err := readPassword(hashPassword)
	if err != nil {
		return err
	}
	if len(password) < ops.MinPasswordLength {
		return &cli.UsageError{Message: ops.MsgPasswordLength, Hint: fmt.Sprintf("Use at least %d characters.", ops.MinPasswordLength)}
	}
	hash, err := ops.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
