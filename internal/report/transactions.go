package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/finance-summary/internal/dateutils"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"

	"github.com/gocarina/gocsv"
)

// TransactionRow is the CSV shape of a normalized transaction.
type TransactionRow struct {
	Date              string `csv:"date"`
	Description       string `csv:"description"`
	Amount            string `csv:"amount"`
	Category          string `csv:"category"`
	ProcessedCategory string `csv:"processed_category"`
	Type              string `csv:"type"`
	Memo              string `csv:"memo"`
	SourceFile        string `csv:"source_file"`
	AmountStatus      string `csv:"amount_status"`
	DateStatus        string `csv:"date_status"`
}

// NewTransactionRow formats a canonical row. Absent dates become empty cells.
func NewTransactionRow(tx models.CanonicalTransaction, dateFormat string) TransactionRow {
	return TransactionRow{
		Date:              dateutils.FormatDate(tx.Date, dateFormat),
		Description:       tx.Description,
		Amount:            tx.Amount.StringFixed(2),
		Category:          tx.Category,
		ProcessedCategory: tx.ProcessedCategory,
		Type:              tx.Type,
		Memo:              tx.Memo,
		SourceFile:        tx.SourceFile,
		AmountStatus:      tx.AmountStatus.String(),
		DateStatus:        tx.DateStatus.String(),
	}
}

// WriteTransactionsCSV writes canonical rows as CSV with a header line.
func (g *Generator) WriteTransactionsCSV(w io.Writer, transactions []models.CanonicalTransaction) error {
	rows := make([]TransactionRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, NewTransactionRow(tx, g.opts.DateFormat))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.opts.Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	g.logger.Info("Wrote transactions to CSV",
		logging.F(logging.FieldCount, len(rows)),
		logging.F(logging.FieldDelimiter, string(g.opts.Delimiter)))
	return nil
}
