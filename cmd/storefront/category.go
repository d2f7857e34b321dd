package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jacksmith/storefront/internal/cli"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
	Long: `List, add, edit and delete categories.

Categories are referenced by id. UUID ids can be shortened to the last 6 or
more characters shown by 'storefront category list'.`,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Long: `List categories in the order they were added, with product counts.

Examples:
  storefront category list
  storefront category list --images`,
	Args: cobra.NoArgs,
	RunE: runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Long: `Add a category with a new id.

Examples:
  storefront category add Thai
  storefront category add "Street Food" --image=file:///home/me/street.png`,
	Args: cobra.ExactArgs(1),
	RunE: runCategoryAdd,
}

var categoryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a category",
	Long: `Change a category's name or image.

Use flags to change specific fields, or -i to edit in $EDITOR.

Examples:
  storefront category edit 6 --name="Italian & Pizza"
  storefront category edit 6 --clear-image
  storefront category edit 6 -i`,
	Args:              cobra.ExactArgs(1),
	RunE:              runCategoryEdit,
	ValidArgsFunction: completeCategoryIDs,
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Long: `Delete a category.

By default its products are kept and show up as orphaned. Set
on_delete_category: cascade in .storefront.yaml to delete them too.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runCategoryDelete,
	ValidArgsFunction: completeCategoryIDs,
}

var (
	categoryListImages bool

	categoryAddImage string

	categoryEditName        string
	categoryEditImage       string
	categoryEditClearImage  bool
	categoryEditInteractive bool
)

func init() {
	categoryListCmd.Flags().BoolVar(&categoryListImages, "images", false, "show image URIs")

	categoryAddCmd.Flags().StringVar(&categoryAddImage, "image", "", "image URI")

	categoryEditCmd.Flags().StringVar(&categoryEditName, "name", "", "set name")
	categoryEditCmd.Flags().StringVar(&categoryEditImage, "image", "", "set image URI")
	categoryEditCmd.Flags().BoolVar(&categoryEditClearImage, "clear-image", false, "remove the image")
	categoryEditCmd.Flags().BoolVarP(&categoryEditInteractive, "interactive", "i", false, "edit in $EDITOR")
	categoryEditCmd.MarkFlagsMutuallyExclusive("image", "clear-image")

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryEditCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runCategoryList(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	summaries, err := w.catalog.CategorySummaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No categories found.")
		return nil
	}

	header := []string{"ID", "NAME", "PRODUCTS"}
	if categoryListImages {
		header = append(header, "IMAGE")
	}
	table := cli.NewTable(header...)
	table.SetMaxWidth(1, cli.DefaultMaxNameWidth)
	for _, s := range summaries {
		row := []string{model.ShortID(s.ID), s.Name, strconv.Itoa(s.Products)}
		if categoryListImages {
			row = append(row, cli.ImageLabel(s.Image))
		}
		table.AddRow(row...)
	}
	table.Render(os.Stdout)
	return nil
}

func runCategoryAdd(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	cat, err := w.catalog.AddCategory(ctx, args[0], model.StringPtr(categoryAddImage))
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", model.ShortID(cat.ID), cat.Name)
	return nil
}

// categoryForm is the document edited by 'category edit -i'.
type categoryForm struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

func runCategoryEdit(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	cat, err := w.catalog.GetCategory(ctx, args[0])
	if err != nil {
		return err
	}

	name, image := cat.Name, cat.Image
	if categoryEditInteractive {
		form := categoryForm{Name: cat.Name, Image: cat.ImageURI()}
		header := fmt.Sprintf("Edit category %s\nLeave image empty to remove it.", model.ShortID(cat.ID))
		if err := cli.EditYAML(&form, header); err != nil {
			if isNoChange(err) {
				fmt.Println("No changes made.")
				return nil
			}
			return err
		}
		name, image = form.Name, model.StringPtr(strings.TrimSpace(form.Image))
	} else {
		changed := false
		if cmd.Flags().Changed("name") {
			name, changed = categoryEditName, true
		}
		if cmd.Flags().Changed("image") {
			image, changed = model.StringPtr(categoryEditImage), true
		}
		if categoryEditClearImage {
			image, changed = nil, true
		}
		if !changed {
			return &cli.UsageError{
				Message: "nothing to change",
				Hint:    "Pass --name, --image or --clear-image, or -i to edit in $EDITOR.",
			}
		}
	}

	updated, err := w.catalog.UpdateCategory(ctx, cat.ID, name, image)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s %s\n", model.ShortID(updated.ID), updated.Name)
	return nil
}

func runCategoryDelete(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	cat, err := w.catalog.GetCategory(ctx, args[0])
	if err != nil {
		return err
	}
	result, err := w.catalog.DeleteCategory(ctx, cat.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %s %s\n", model.ShortID(result.Category.ID), result.Category.Name)
	if n := len(result.RemovedProducts); n > 0 {
		fmt.Printf("Removed %d product(s)\n", n)
	}
	if n := len(result.OrphanedProducts); n > 0 {
		fmt.Println(cli.Yellow(fmt.Sprintf("%d product(s) left without a category", n)))
	}
	return nil
}
