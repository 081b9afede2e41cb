// Package aggregator merges normalized files into one transaction set and
// computes the yearly rollups shown in reports.
package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
)

// NormalizedFile is the output of normalizing one input file.
type NormalizedFile struct {
	Name string
	Rows []models.CanonicalTransaction
}

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
}

// DropCounts counts rows removed during validation.
type DropCounts struct {
	MissingDate int
	ZeroAmount  int
}

// Total returns the number of dropped rows.
func (d DropCounts) Total() int {
	return d.MissingDate + d.ZeroAmount
}

// Aggregator builds TransactionSets.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Aggregator{logger: logger}
}

// Aggregate concatenates the files in order, drops rows without a date or
// with a zero amount, derives the calendar fields and sorts chronologically.
// Rows sharing a date keep their input order.
func (a *Aggregator) Aggregate(files []NormalizedFile) *TransactionSet {
	set := &TransactionSet{}
	summaries := make(map[string]*FileSummary, len(files))

	for _, f := range files {
		summary, ok := summaries[f.Name]
		if !ok {
			summary = &FileSummary{File: f.Name}
			summaries[f.Name] = summary
			set.files = append(set.files, summary)
		}
		summary.Rows += len(f.Rows)

		for _, row := range f.Rows {
			if row.IsValid() {
				tx := models.NewTransaction(row)
				set.Transactions = append(set.Transactions, tx)
				summary.add(tx)
				continue
			}
			if !row.HasDate() {
				set.Dropped.MissingDate++
			} else {
				set.Dropped.ZeroAmount++
			}
			summary.Dropped++
		}
	}

	sort.SliceStable(set.Transactions, func(i, j int) bool {
		return set.Transactions[i].Date.Before(set.Transactions[j].Date)
	})

	if set.Dropped.Total() > 0 {
		a.logger.Info("Dropped rows with invalid dates or amounts",
			logging.F(logging.FieldDropped, set.Dropped.Total()),
			logging.F("missing_date", set.Dropped.MissingDate),
			logging.F("zero_amount", set.Dropped.ZeroAmount))
	}

	set.Duplicates = a.detectAndLogDuplicates(set.Transactions)

	a.logger.Info("Aggregated transactions",
		logging.F(logging.FieldCount, len(set.Transactions)),
		logging.F("source_files", len(set.files)))

	return set
}

// detectAndLogDuplicates logs rows that share date, amount and description
// with an earlier row. Duplicates are kept: overlapping exports are common and
// only the user can tell a repeat purchase from a double import.
func (a *Aggregator) detectAndLogDuplicates(transactions []models.Transaction) int {
	seen := make(map[string]bool, len(transactions))
	count := 0

	for _, tx := range transactions {
		key := duplicateKey(tx)
		if !seen[key] {
			seen[key] = true
			continue
		}
		count++
		a.logger.Warn("Potential duplicate transaction",
			logging.F("date", tx.Date.Format("2006-01-02")),
			logging.F("amount", tx.Amount.String()),
			logging.F("description", tx.Description),
			logging.F(logging.FieldFile, tx.SourceFile))
	}

	if count > 0 {
		a.logger.Warn("Found potential duplicate transactions", logging.F(logging.FieldCount, count))
	}
	return count
}

func duplicateKey(tx models.Transaction) string {
	return tx.Date.Format("2006-01-02") + "|" + tx.Amount.String() + "|" +
		strings.ToLower(strings.TrimSpace(tx.Description))
}
