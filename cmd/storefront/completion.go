package main

import (
	"context"
	"os"
	"strings"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for storefront.

To load completions:

Bash:
  $ source <(storefront completion bash)

Zsh:
  $ storefront completion zsh > "${fpath[1]}/_storefront"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ storefront completion fish | source
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// completeCategoryIDs completes category ids with the name as description.
func completeCategoryIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	w, err := openWorkspace()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer w.Close()

	cats, err := w.catalog.ListCategories(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var completions []string
	for _, c := range cats {
		if id := model.ShortID(c.ID); strings.HasPrefix(id, strings.ToLower(toComplete)) {
			completions = append(completions, id+"\t"+c.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeProductIDs completes the product id argument with name and price.
func completeProductIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	w, err := openWorkspace()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer w.Close()

	products, err := w.catalog.ListProducts(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var completions []string
	for i := range products {
		p := &products[i]
		if id := model.ShortID(p.ID); strings.HasPrefix(id, strings.ToLower(toComplete)) {
			completions = append(completions, id+"\t"+p.Name+" "+p.DisplayPrice())
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
