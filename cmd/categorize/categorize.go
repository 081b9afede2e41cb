// Package categorize handles the single-transaction categorization command
package categorize

import (
	"fmt"
	"io"

	"fjacquet/finance-summary/cmd/root"
	"fjacquet/finance-summary/internal/categorizer"
	"fjacquet/finance-summary/internal/container"
	"fjacquet/finance-summary/internal/logging"

	"github.com/spf13/cobra"
)

// Options are the categorize flags.
type Options struct {
	Description string
	Category    string
	Explain     bool
}

var opts Options

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize one transaction description",
	Long: `Categorize a transaction from its description and, optionally, the category
exported by the bank. Keyword rules win, then the bank category is mapped
through the synonym table, then it is used as is (title-cased), else "Other".

Example:
  finance-summary categorize -d "STARBUCKS COFFEE #123"
  finance-summary categorize -d "PETCO 123" -c "pet supplies" --explain`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.OutOrStdout(), root.GetContainer(), opts)
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Category exported by the bank (optional)")
	Cmd.Flags().BoolVar(&opts.Explain, "explain", false, "Show the verdict of every strategy")
	_ = Cmd.MarkFlagRequired("description")
}

// Run prints the category, and with Explain the strategy that decided it,
// the matched rule's description and the verdict of each strategy.
func Run(w io.Writer, c *container.Container, o Options) error {
	tx := categorizer.Transaction{Description: o.Description, OriginalCategory: o.Category}
	cat := c.GetCategorizer()

	category := cat.CategorizeTransaction(tx)
	if _, err := fmt.Fprintln(w, category.Name); err != nil {
		return err
	}
	if !o.Explain {
		return nil
	}

	results := cat.Explain(tx)
	c.GetLogger().Debug("Explained categorization",
		logging.F(logging.FieldDescription, o.Description),
		logging.F("strategies", results.Summary()))

	if winner, ok := results.Winner(); ok {
		fmt.Fprintf(w, "  decided by %s\n", winner.Strategy)
	}
	if rule, ok := c.GetRules().Rule(category.Name); ok && rule.Description != "" {
		fmt.Fprintf(w, "  rule: %s\n", rule.Description)
	}

	for _, r := range results.Results {
		verdict := "no match"
		if r.Found {
			verdict = r.Category.Name
		}
		if _, err := fmt.Fprintf(w, "  %-10s %s\n", r.Strategy, verdict); err != nil {
			return err
		}
	}
	return nil
}
