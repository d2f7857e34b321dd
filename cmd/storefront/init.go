package main

import (
	"fmt"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/ops"
	"github.com/jacksmith/storefront/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new storefront workspace",
	Long: `Create a .storefront/ directory and seed the default catalog.

The file backend (default) keeps one JSON file per key under
.storefront/kv/. The sqlite backend keeps them in .storefront/store.db.

Use --empty to skip the default categories and products.

Fails if .storefront/ already exists in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initBackend string
	initEmpty   bool
)

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", "file", "key-value backend (file or sqlite)")
	initCmd.Flags().BoolVar(&initEmpty, "empty", false, "start with no categories or products")
	initCmd.RegisterFlagCompletionFunc("backend", cobra.FixedCompletions(
		[]string{string(storage.BackendFile), string(storage.BackendSQLite)}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	backend, err := storage.ParseBackend(initBackend)
	if err != nil {
		return err
	}
	s, err := storage.Init(".", backend, storage.WithLogger(newLogger(storage.DefaultConfig().SlogLevel())))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	fmt.Printf("Initialized storefront in .storefront/ (%s backend)\n", s.Backend())

	if initEmpty {
		// Empty collections are present, so first use does not seed them.
		if err := storage.Save(ctx, s, model.KeyCategories, []model.Category{}); err != nil {
			return err
		}
		return storage.Save(ctx, s, model.KeyProducts, []model.Product{})
	}

	catalog := ops.NewCatalog(s)
	cats, err := catalog.SeedCategories(ctx)
	if err != nil {
		return err
	}
	products, err := catalog.SeedProducts(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d categories and %d products\n", len(cats), len(products))
	return nil
}
