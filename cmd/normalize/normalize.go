// Package normalize implements the normalize command: the merged canonical table as CSV.
package normalize

import (
	"context"
	"io"

	"fjacquet/finance-summary/cmd/common"
	"fjacquet/finance-summary/cmd/root"
	"fjacquet/finance-summary/internal/container"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
	"fjacquet/finance-summary/internal/parsererror"

	"github.com/spf13/cobra"
)

// Options are the normalize flags.
type Options struct {
	Files  []string
	Dir    string
	Output string
}

// Cmd represents the normalize command
var Cmd = &cobra.Command{
	Use:   "normalize [files...]",
	Short: "Convert CSV exports into one canonical, categorized CSV",
	Long: `Normalize each CSV export into the canonical columns (date, description,
amount, category, ...), categorize every row and write them as one CSV table.
Rows whose date or amount could not be read are kept and flagged in the
amount_status and date_status columns.

Example:
  finance-summary normalize chase.csv bank.csv -o all.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), cmd.OutOrStdout(), root.GetContainer(), Options{
			Files:  args,
			Dir:    root.SharedFlags.Input,
			Output: root.SharedFlags.Output,
		})
	},
}

// Run normalizes the inputs and writes the canonical rows in input order.
func Run(ctx context.Context, stdout io.Writer, c *container.Container, opts Options) error {
	logger := c.GetLogger()

	inputs, err := common.LoadInputs(opts.Files, opts.Dir, logger)
	if err != nil {
		return err
	}

	files, batch, err := c.GetProcessor().NormalizeBatch(ctx, inputs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return &parsererror.BatchError{Files: len(inputs), Failures: batch.Failures(), Err: parsererror.ErrNoValidData}
	}
	for _, w := range batch.Warnings() {
		logger.Warn(w)
	}

	var rows []models.CanonicalTransaction
	for _, f := range files {
		rows = append(rows, f.Rows...)
	}

	out, closeOut, err := common.OpenOutput(opts.Output, stdout, logger)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := c.GetReportGenerator().WriteTransactionsCSV(out, rows); err != nil {
		return err
	}
	if opts.Output != "" {
		logger.Info("Wrote normalized transactions", logging.F(logging.FieldOutputFile, opts.Output))
	}
	return nil
}
