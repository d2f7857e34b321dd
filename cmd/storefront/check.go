package main

import (
	"errors"
	"fmt"

	"github.com/jacksmith/storefront/internal/cli"
	"github.com/jacksmith/storefront/internal/ops"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check catalog integrity",
	Long: `Check both collections for integrity issues.

Checks for:
- Duplicate ids
- Malformed ids
- Missing names or prices
- Prices that are not decimal numbers (only with strict_price)
- Orphaned products (their category no longer exists)
- Collections whose stored value cannot be decoded

Use --fix to drop later duplicates and remove orphaned products. Corrupt
collections are never rewritten by --fix, and orphans are left alone while
categories are corrupt. Exits non-zero when issues remain.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkFix bool

// errIssuesRemain makes check exit non-zero after printing its report.
var errIssuesRemain = errors.New("integrity issues found")

func init() {
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "repair fixable issues")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer closeWith(w, &err)

	issues, err := w.catalog.Check(ctx)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		fmt.Println(cli.Green("No issues found."))
		return nil
	}

	if !checkFix {
		fmt.Printf("Found %d issue(s):\n\n", len(issues))
		printIssues(issues)
		return errIssuesRemain
	}

	fmt.Printf("Found %d issue(s). Attempting to fix...\n\n", len(issues))
	fixes, err := w.catalog.CheckAndFix(ctx)
	if err != nil {
		return err
	}
	if len(fixes) > 0 {
		fmt.Println("Fixes applied:")
		for _, f := range fixes {
			fmt.Printf("  %s %s: %s\n", f.Collection, f.ItemID, f.Description)
		}
		fmt.Println()
	}

	remaining, err := w.catalog.Check(ctx)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		fmt.Println(cli.Green("All fixable issues resolved."))
		return nil
	}
	fmt.Printf("Remaining issues (%d) that cannot be auto-fixed:\n\n", len(remaining))
	printIssues(remaining)
	return errIssuesRemain
}

func printIssues(issues []ops.Issue) {
	for _, i := range issues {
		subject := i.Collection
		if i.ItemID != "" {
			subject += " " + i.ItemID
		}
		fmt.Printf("%s %s: %s\n", subject, issueLabel(i.Type), i.Message)
	}
}

func issueLabel(t ops.IssueType) string {
	switch t {
	case ops.IssueOrphanProduct:
		return cli.Yellow(cli.OrphanMarker)
	case ops.IssueDuplicateID:
		return cli.Red("[duplicate]")
	case ops.IssueInvalidID:
		return cli.Red("[invalid-id]")
	case ops.IssueMissingRequired:
		return cli.Red("[missing]")
	case ops.IssueInvalidPrice:
		return cli.Red("[price]")
	case ops.IssueCorrupt:
		return cli.Red("[corrupt]")
	default:
		return fmt.Sprintf("[%s]", t)
	}
}
