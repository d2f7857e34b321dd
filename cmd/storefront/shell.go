package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jacksmith/storefront/internal/cli"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/nav"
	"github.com/jacksmith/storefront/internal/screen"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Walk the app screens interactively",
	Long: `Start an interactive shell that behaves like the app: a splash check of
the login flag, the login form, the category list, the category form, a
category's product list and the product form.

Each screen has its own commands; type 'help' to list them. Commands can be
abbreviated to any unique prefix. Rows are picked by the number shown in
the first column or by id.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) (err error) {
	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	return newShell(w, os.Stdin, os.Stdout).run(commandContext(cmd))
}

// shellCommands lists the commands each screen accepts.
var shellCommands = map[nav.Screen][]string{
	nav.Splashscreen:   {"help", "quit"},
	nav.LoginScreen:    {"login", "help", "quit"},
	nav.HomeScreen:     {"list", "open", "add", "edit", "delete", "logout", "help", "quit"},
	nav.CategoryScreen: {"show", "name", "image", "save", "cancel", "help", "quit"},
	nav.ProductScreen:  {"list", "add", "edit", "delete", "back", "help", "quit"},
	nav.EditProduct:    {"show", "name", "price", "image", "save", "cancel", "help", "quit"},
}

var screenTitles = map[nav.Screen]string{
	nav.Splashscreen:   "splash",
	nav.LoginScreen:    "login",
	nav.HomeScreen:     "home",
	nav.CategoryScreen: "category",
	nav.ProductScreen:  "products",
	nav.EditProduct:    "product",
}

// shell drives the screen controllers from a line prompt. A navigator
// listener records route changes; the loop then builds the controller for
// the new top screen before reading the next line.
type shell struct {
	app *screen.App
	in  *bufio.Scanner
	out io.Writer

	route   nav.Route
	changed bool

	login    *screen.Login
	home     *screen.Home
	category *screen.CategoryEdit
	products *screen.ProductList
	product  *screen.ProductEdit
}

func newShell(w *workspace, in io.Reader, out io.Writer) *shell {
	sh := &shell{in: bufio.NewScanner(in), out: out}
	sh.app = screen.NewApp(w.store, nav.New(nav.WithLogger(w.logger)), screen.PickerFunc(sh.pickImage))
	return sh
}

func (sh *shell) run(ctx context.Context) error {
	unsubscribe := sh.app.Nav.Subscribe(func(r nav.Route) {
		sh.route, sh.changed = r, true
	})
	defer unsubscribe()
	defer sh.app.Nav.Detach()

	sh.app.Start(ctx)
	for {
		if sh.changed {
			sh.changed = false
			sh.enter(ctx)
		}

		line, ok := sh.prompt(screenTitles[sh.route.Screen] + "> ")
		if !ok {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		words, err := cli.SplitArgs(line)
		if err != nil {
			sh.printf("%v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}
		if sh.dispatch(ctx, words[0], words[1:]) {
			return nil
		}
	}
}

func (sh *shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

// note prints a controller message, if any.
func (sh *shell) note(msg string) {
	if msg != "" {
		sh.printf("%s\n", cli.Yellow(msg))
	}
}

// prompt prints label and reads a line. ok is false at end of input.
func (sh *shell) prompt(label string) (string, bool) {
	fmt.Fprint(sh.out, label)
	if !sh.in.Scan() {
		return "", false
	}
	return sh.in.Text(), true
}

// pickImage is the shell's image picker: a file path or URI typed at a
// prompt. A blank line cancels.
func (sh *shell) pickImage(ctx context.Context) (string, bool, error) {
	line, ok := sh.prompt("Image path or URI (blank to cancel): ")
	line = strings.TrimSpace(line)
	if !ok || line == "" {
		return "", false, nil
	}
	if strings.Contains(line, "://") {
		return line, true, nil
	}
	abs, err := filepath.Abs(line)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", false, fmt.Errorf("image %s: %w", line, err)
	}
	return "file://" + filepath.ToSlash(abs), true, nil
}

// enter builds the controller for the current screen and renders it.
func (sh *shell) enter(ctx context.Context) {
	switch sh.route.Screen {
	case nav.LoginScreen:
		sh.login = screen.NewLogin(sh.app)
	case nav.HomeScreen:
		sh.home = screen.NewHome(sh.app)
		sh.home.Mount(ctx)
	case nav.CategoryScreen:
		sh.category = screen.NewCategoryEdit(sh.app)
	case nav.ProductScreen:
		sh.products = screen.NewProductList(sh.app)
		sh.products.Mount(ctx)
	case nav.EditProduct:
		sh.product = screen.NewProductEdit(sh.app)
	}
	sh.render()
}

func (sh *shell) render() {
	switch sh.route.Screen {
	case nav.LoginScreen:
		sh.printf("Log in with: login <email> [password]\n")
	case nav.HomeScreen:
		sh.renderHome()
	case nav.CategoryScreen:
		sh.renderCategoryForm()
	case nav.ProductScreen:
		sh.renderProducts()
	case nav.EditProduct:
		sh.renderProductForm()
	}
}

func (sh *shell) renderHome() {
	sh.note(sh.home.Message)
	if len(sh.home.Categories) == 0 {
		sh.printf("No categories. Use 'add' to create one.\n")
		return
	}
	table := cli.NewTable("#", "ID", "NAME")
	table.SetMaxWidth(2, cli.DefaultMaxNameWidth)
	for i, c := range sh.home.Categories {
		table.AddRow(strconv.Itoa(i+1), model.ShortID(c.ID), c.Name)
	}
	table.Render(sh.out)
}

func (sh *shell) renderProducts() {
	sh.note(sh.products.Message)
	sh.printf("%s\n", sh.products.CategoryName)
	if len(sh.products.Products) == 0 {
		sh.printf("No products. Use 'add' to create one.\n")
		return
	}
	width := 0
	for i := range sh.products.Products {
		width = max(width, len(sh.products.Products[i].DisplayPrice()))
	}
	table := cli.NewTable("#", "ID", "NAME", "PRICE")
	table.SetMaxWidth(2, cli.DefaultMaxNameWidth)
	for i := range sh.products.Products {
		p := &sh.products.Products[i]
		table.AddRow(strconv.Itoa(i+1), model.ShortID(p.ID), p.Name, cli.Price(p, width))
	}
	table.Render(sh.out)
}

func (sh *shell) renderCategoryForm() {
	f := sh.category
	title := "New category"
	if f.IsEditing() {
		title = "Edit category"
	}
	sh.printf("%s\n  name:  %s%s\n  image: %s\n", title, f.Name, fieldError(f.NameError), cli.ImageLabel(f.Image))
	sh.note(f.Message)
}

func (sh *shell) renderProductForm() {
	f := sh.product
	title := "New product"
	if f.IsEditing() {
		title = "Edit product"
	}
	sh.printf("%s\n  name:  %s%s\n  price: %s%s\n  image: %s\n",
		title, f.Name, fieldError(f.NameError), f.Price, fieldError(f.PriceError), cli.ImageLabel(f.Image))
	sh.note(f.Message)
}

func fieldError(msg string) string {
	if msg == "" {
		return ""
	}
	return "  " + cli.Red(msg)
}

// dispatch runs one command. It reports true when the shell should exit.
func (sh *shell) dispatch(ctx context.Context, word string, args []string) bool {
	cmds := shellCommands[sh.route.Screen]
	name, err := cli.MatchCommand(word, cmds)
	if err != nil {
		sh.printf("%v\n", err)
		return false
	}

	switch name {
	case "quit":
		return true
	case "help":
		sh.printf("Commands: %s\n", strings.Join(cmds, ", "))
		return false
	}

	switch sh.route.Screen {
	case nav.LoginScreen:
		sh.loginCommand(ctx, args)
	case nav.HomeScreen:
		sh.homeCommand(ctx, name, args)
	case nav.CategoryScreen:
		sh.categoryCommand(ctx, name, args)
	case nav.ProductScreen:
		sh.productsCommand(ctx, name, args)
	case nav.EditProduct:
		sh.productCommand(ctx, name, args)
	}
	return false
}

func (sh *shell) loginCommand(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		sh.printf("usage: login <email> [password]\n")
		return
	}
	email, password := args[0], ""
	if len(args) == 2 {
		password = args[1]
	} else {
		password, _ = sh.prompt("Password: ")
	}

	l := sh.login
	if !l.Submit(ctx, email, password) {
		if l.EmailError != "" {
			sh.printf("  email: %s\n", cli.Red(l.EmailError))
		}
		if l.PasswordError != "" {
			sh.printf("  password: %s\n", cli.Red(l.PasswordError))
		}
		sh.note(l.Message)
	}
}

// pickRow resolves a row number or id against n rows.
func pickRow(args []string, n int, idAt func(int) string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected a row number or id")
	}
	if i, err := strconv.Atoi(args[0]); err == nil && i >= 1 && i <= n {
		return idAt(i - 1), nil
	}
	for i := 0; i < n; i++ {
		if model.MatchID(idAt(i), args[0]) {
			return idAt(i), nil
		}
	}
	return "", fmt.Errorf("no row %q", args[0])
}

func (sh *shell) homeCommand(ctx context.Context, name string, args []string) {
	h := sh.home
	h.Message = ""

	if name == "open" || name == "edit" || name == "delete" {
		id, err := pickRow(args, len(h.Categories), func(i int) string { return h.Categories[i].ID })
		if err != nil {
			sh.printf("%v\n", err)
			return
		}
		switch name {
		case "open":
			h.OpenCategory(ctx, id)
		case "edit":
			h.EditCategory(ctx, id)
		case "delete":
			h.DeleteCategory(ctx, id)
			sh.renderHome()
			return
		}
		sh.note(h.Message)
		return
	}

	switch name {
	case "list":
		h.Refresh(ctx)
		sh.renderHome()
	case "add":
		h.AddCategory(ctx)
		sh.note(h.Message)
	case "logout":
		h.Logout(ctx)
		sh.note(h.Message)
	}
}

func (sh *shell) categoryCommand(ctx context.Context, name string, args []string) {
	f := sh.category
	switch name {
	case "show":
		sh.renderCategoryForm()
	case "name":
		f.Name = strings.Join(args, " ")
	case "image":
		f.PickImage(ctx)
		sh.note(f.Message)
	case "save":
		if !f.Save(ctx) {
			if f.NameError != "" {
				sh.printf("  name: %s\n", cli.Red(f.NameError))
			}
			sh.note(f.Message)
		}
	case "cancel":
		f.Cancel()
	}
}

func (sh *shell) productsCommand(ctx context.Context, name string, args []string) {
	pl := sh.products
	pl.Message = ""

	switch name {
	case "list":
		pl.Refresh(ctx)
		sh.renderProducts()
	case "add":
		pl.Add(ctx)
		sh.note(pl.Message)
	case "edit", "delete":
		id, err := pickRow(args, len(pl.Products), func(i int) string { return pl.Products[i].ID })
		if err != nil {
			sh.printf("%v\n", err)
			return
		}
		if name == "edit" {
			pl.Edit(ctx, id)
			sh.note(pl.Message)
			return
		}
		pl.Delete(ctx, id)
		sh.renderProducts()
	case "back":
		sh.app.Nav.GoBack()
	}
}

func (sh *shell) productCommand(ctx context.Context, name string, args []string) {
	f := sh.product
	switch name {
	case "show":
		sh.renderProductForm()
	case "name":
		f.Name = strings.Join(args, " ")
	case "price":
		f.Price = strings.Join(args, " ")
	case "image":
		f.PickImage(ctx)
		sh.note(f.Message)
	case "save":
		if !f.Save(ctx) {
			if f.NameError != "" {
				sh.printf("  name: %s\n", cli.Red(f.NameError))
			}
			if f.PriceError != "" {
				sh.printf("  price: %s\n", cli.Red(f.PriceError))
			}
			sh.note(f.Message)
		}
	case "cancel":
		f.Cancel()
	}
}
