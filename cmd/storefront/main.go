// Package main is the entry point for the storefront CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/storefront/internal/cli"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "storefront - manage a shop's food categories and products",
	Long: `storefront manages a catalog of food categories and the products
listed under each one. Everything is stored locally in .storefront/.

Use the one-shot commands (category, product, check) for scripting, or
'storefront shell' to walk the app screen by screen: login, the category
list, category and product forms.

Settings such as the delete policy and log level live in .storefront.yaml
next to .storefront/.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Show help when no subcommand is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("storefront version {{.Version}}\n")
}
