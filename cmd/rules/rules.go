// Package rules implements the rules command: inspect or export the active rule table.
package rules

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"fjacquet/finance-summary/cmd/root"
	"fjacquet/finance-summary/internal/container"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
	"fjacquet/finance-summary/internal/parsererror"

	"github.com/spf13/cobra"
)

// Options are the rules flags.
type Options struct {
	Format string
	Export string
}

var opts Options

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active categorization and column rules",
	Long: `Print the rule table in effect: categories in priority order with their
keywords, the category synonym table and the column header aliases.
Use --export to write it as YAML, a starting point for a custom rules file.

Example:
  finance-summary rules
  finance-summary rules --format json
  finance-summary rules --export my-rules.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.OutOrStdout(), root.GetContainer(), opts)
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format: text or json")
	Cmd.Flags().StringVar(&opts.Export, "export", "", "Write the rule table as YAML to this file")
}

// Run prints or exports the rule table.
func Run(w io.Writer, c *container.Container, o Options) error {
	table := c.GetRules()

	if o.Export != "" {
		if err := c.GetStore().SaveRules(table, o.Export); err != nil {
			return err
		}
		c.GetLogger().Info("Exported rules", logging.F(logging.FieldOutputFile, o.Export))
		return nil
	}

	switch strings.ToLower(o.Format) {
	case "text":
		return writeText(w, table)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	default:
		return &parsererror.ParseError{Field: "format", Value: o.Format, Err: fmt.Errorf("must be text or json")}
	}
}

func writeText(w io.Writer, table *models.RuleTable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Rule table version %d\n\n", table.Version)

	fmt.Fprintln(tw, "Categories (first match wins)")
	fmt.Fprintf(tw, "  %s\n\n", strings.Join(table.CategoryNames(), " > "))
	for i, r := range table.Categories {
		fmt.Fprintf(tw, "  %d.\t%s\t%d keywords\t%s\n", i+1, r.Name, len(r.Keywords), strings.Join(r.Keywords, ", "))
	}

	if len(table.Synonyms) > 0 {
		fmt.Fprintln(tw, "\nSynonyms")
		keys := make([]string, 0, len(table.Synonyms))
		for k := range table.Synonyms {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(tw, "  %s\t-> %s\n", k, table.Synonyms[k])
		}
	}

	fmt.Fprintln(tw, "\nColumn aliases")
	for _, field := range table.Aliases.Fields() {
		fmt.Fprintf(tw, "  %s\t%s\n", field, strings.Join(table.Aliases[field], ", "))
	}

	return tw.Flush()
}
