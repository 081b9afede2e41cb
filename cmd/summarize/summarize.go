// Package summarize implements the summarize command: the yearly report.
package summarize

import (
	"context"
	"io"

	"fjacquet/finance-summary/cmd/common"
	"fjacquet/finance-summary/cmd/root"
	"fjacquet/finance-summary/internal/container"
	"fjacquet/finance-summary/internal/report"

	"github.com/spf13/cobra"
)

// Options are the summarize flags.
type Options struct {
	Files  []string
	Dir    string
	Output string
	Year   int
	Format string
}

var (
	year   int
	format string
)

// Cmd represents the summarize command
var Cmd = &cobra.Command{
	Use:   "summarize [files...]",
	Short: "Summarize income and expenses by category for a year",
	Long: `Normalize and categorize the given CSV exports, then print the totals,
top categories and monthly breakdown of one year (the latest one by default).

Example:
  finance-summary summarize chase.csv bank.csv --year 2024
  finance-summary summarize -i statements/ --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), cmd.OutOrStdout(), root.GetContainer(), Options{
			Files:  args,
			Dir:    root.SharedFlags.Input,
			Output: root.SharedFlags.Output,
			Year:   year,
			Format: format,
		})
	},
}

func init() {
	Cmd.Flags().IntVarP(&year, "year", "y", 0, "Year to summarize (default: latest year in the data)")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json or csv (default: report.format)")
}

// Run processes the batch and writes the summary report.
func Run(ctx context.Context, stdout io.Writer, c *container.Container, opts Options) error {
	logger := c.GetLogger()

	name := opts.Format
	if name == "" {
		name = c.GetConfig().Report.Format
	}
	f, err := report.ParseFormat(name)
	if err != nil {
		return err
	}

	inputs, err := common.LoadInputs(opts.Files, opts.Dir, logger)
	if err != nil {
		return err
	}

	result, err := c.GetProcessor().ProcessBatch(ctx, inputs)
	if err != nil {
		return err
	}

	warnings := result.Report.Warnings()
	for _, w := range warnings {
		logger.Warn(w)
	}

	summary, err := report.BuildSummary(result.Set, opts.Year, warnings)
	if err != nil {
		return err
	}

	out, closeOut, err := common.OpenOutput(opts.Output, stdout, logger)
	if err != nil {
		return err
	}
	defer closeOut()

	return c.GetReportGenerator().Write(out, summary, f)
}
