package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jacksmith/storefront/internal/cli"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/ops"
	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:     "product",
	Aliases: []string{"prod"},
	Short:   "Manage products",
	Long: `List, add, edit and delete products.

Every product belongs to a category by id. Products whose category was
deleted are kept and marked ` + cli.OrphanMarker + ` in listings.`,
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List products in the order they were added.

Without flags every product is listed with its category. --category lists
exactly the products filed under one category, as the app's product screen
does. --orphans lists only products whose category no longer exists.

Examples:
  storefront product list
  storefront product list --category=2
  storefront product list --orphans`,
	Args: cobra.NoArgs,
	RunE: runProductList,
}

var productAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a product",
	Long: `Add a product to a category.

Examples:
  storefront product add "Pav Bhaji" --category=1 --price=60.00
  storefront product add Pizza -c 6 --price=250 --image=file:///tmp/pizza.png`,
	Args: cobra.ExactArgs(1),
	RunE: runProductAdd,
}

var productEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a product",
	Long: `Change a product's name, price, image or category.

Use flags to change specific fields, or -i to edit in $EDITOR.

Examples:
  storefront product edit 4 --price=140.00
  storefront product edit 4 --category=3
  storefront product edit 4 -i`,
	Args:              cobra.ExactArgs(1),
	RunE:              runProductEdit,
	ValidArgsFunction: completeProductIDs,
}

var productDeleteCmd = &cobra.Command{
	Use:               "delete <id>",
	Short:             "Delete a product",
	Args:              cobra.ExactArgs(1),
	RunE:              runProductDelete,
	ValidArgsFunction: completeProductIDs,
}

var (
	productListCategory string
	productListOrphans  bool

	productAddCategory string
	productAddPrice    string
	productAddImage    string

	productEditName        string
	productEditPrice       string
	productEditImage       string
	productEditClearImage  bool
	productEditCategory    string
	productEditInteractive bool
)

func init() {
	productListCmd.Flags().StringVarP(&productListCategory, "category", "c", "", "list one category's products")
	productListCmd.Flags().BoolVar(&productListOrphans, "orphans", false, "list only orphaned products")
	productListCmd.MarkFlagsMutuallyExclusive("category", "orphans")
	productListCmd.RegisterFlagCompletionFunc("category", completeCategoryIDs)

	productAddCmd.Flags().StringVarP(&productAddCategory, "category", "c", "", "category id")
	productAddCmd.Flags().StringVar(&productAddPrice, "price", "", "price, e.g. 120.00")
	productAddCmd.Flags().StringVar(&productAddImage, "image", "", "image URI")
	productAddCmd.MarkFlagRequired("category")
	productAddCmd.RegisterFlagCompletionFunc("category", completeCategoryIDs)

	productEditCmd.Flags().StringVar(&productEditName, "name", "", "set name")
	productEditCmd.Flags().StringVar(&productEditPrice, "price", "", "set price")
	productEditCmd.Flags().StringVar(&productEditImage, "image", "", "set image URI")
	productEditCmd.Flags().BoolVar(&productEditClearImage, "clear-image", false, "remove the image")
	productEditCmd.Flags().StringVarP(&productEditCategory, "category", "c", "", "move to another category")
	productEditCmd.Flags().BoolVarP(&productEditInteractive, "interactive", "i", false, "edit in $EDITOR")
	productEditCmd.MarkFlagsMutuallyExclusive("image", "clear-image")
	productEditCmd.RegisterFlagCompletionFunc("category", completeCategoryIDs)

	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productEditCmd)
	productCmd.AddCommand(productDeleteCmd)
	rootCmd.AddCommand(productCmd)
}

func runProductList(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	if productListCategory != "" {
		cat, err := w.catalog.GetCategory(ctx, productListCategory)
		if err != nil {
			return err
		}
		products, err := w.catalog.ListProductsByCategory(ctx, cat.ID)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Printf("No products in %s.\n", cat.Name)
			return nil
		}
		width := 0
		for i := range products {
			width = max(width, len(products[i].DisplayPrice()))
		}
		table := cli.NewTable("ID", "NAME", "PRICE", "IMAGE")
		table.SetMaxWidth(1, cli.DefaultMaxNameWidth)
		for i := range products {
			p := &products[i]
			table.AddRow(model.ShortID(p.ID), p.Name, cli.Price(p, width), cli.ImageLabel(p.Image))
		}
		table.Render(os.Stdout)
		return nil
	}

	views, err := w.catalog.ProductViews(ctx)
	if err != nil {
		return err
	}
	if productListOrphans {
		orphans := views[:0:0]
		for _, v := range views {
			if v.State == model.ProductStateOrphaned {
				orphans = append(orphans, v)
			}
		}
		views = orphans
	}
	if len(views) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	width := 0
	for i := range views {
		width = max(width, len(views[i].DisplayPrice()))
	}
	table := cli.NewTable("ID", "NAME", "PRICE", "CATEGORY", "")
	table.SetMaxWidth(1, cli.DefaultMaxNameWidth)
	table.SetMaxWidth(3, cli.DefaultMaxNameWidth)
	for i := range views {
		v := &views[i]
		category := v.CategoryName
		if v.State == model.ProductStateOrphaned {
			category = model.ShortID(v.CategoryID)
		}
		table.AddRow(model.ShortID(v.ID), v.Name, cli.Price(&v.Product, width), category, cli.StateLabel(v.State))
	}
	table.Render(os.Stdout)
	return nil
}

func runProductAdd(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	cat, err := w.catalog.GetCategory(ctx, productAddCategory)
	if err != nil {
		return err
	}
	p, err := w.catalog.AddProduct(ctx, cat.ID, args[0], productAddPrice, model.StringPtr(productAddImage))
	if err != nil {
		return err
	}
	fmt.Printf("%s %s %s\n", model.ShortID(p.ID), p.Name, p.DisplayPrice())
	return nil
}

// productForm is the document edited by 'product edit -i'.
type productForm struct {
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Image    string `yaml:"image"`
	Category string `yaml:"category"`
}

func runProductEdit(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	p, err := w.catalog.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}

	var changes ops.ProductChanges
	var category string
	if productEditInteractive {
		form := productForm{Name: p.Name, Price: p.Price, Image: p.ImageURI(), Category: p.CategoryID}
		header := fmt.Sprintf("Edit product %s\nLeave image empty to remove it.", model.ShortID(p.ID))
		if err := cli.EditYAML(&form, header); err != nil {
			if isNoChange(err) {
				fmt.Println("No changes made.")
				return nil
			}
			return err
		}
		image := model.StringPtr(strings.TrimSpace(form.Image))
		changes = ops.ProductChanges{Name: &form.Name, Price: &form.Price, Image: &image}
		if form.Category != p.CategoryID {
			category = form.Category
		}
	} else {
		if cmd.Flags().Changed("name") {
			changes.Name = &productEditName
		}
		if cmd.Flags().Changed("price") {
			changes.Price = &productEditPrice
		}
		if cmd.Flags().Changed("image") {
			image := model.StringPtr(productEditImage)
			changes.Image = &image
		}
		if productEditClearImage {
			var none *string
			changes.Image = &none
		}
		if cmd.Flags().Changed("category") {
			category = productEditCategory
		}
		if changes.IsEmpty() && category == "" {
			return &cli.UsageError{
				Message: "nothing to change",
				Hint:    "Pass --name, --price, --image, --clear-image or --category, or -i to edit in $EDITOR.",
			}
		}
	}

	if category != "" {
		cat, err := w.catalog.GetCategory(ctx, category)
		if err != nil {
			return err
		}
		changes.CategoryID = &cat.ID
	}

	updated, err := w.catalog.UpdateProduct(ctx, p.ID, changes)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s %s %s\n", model.ShortID(updated.ID), updated.Name, updated.DisplayPrice())
	return nil
}

func runProductDelete(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	p, err := w.catalog.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	removed, err := w.catalog.DeleteProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %s %s\n", model.ShortID(removed.ID), removed.Name)
	return nil
}
