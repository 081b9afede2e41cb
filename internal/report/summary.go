// Package report renders the yearly summary of a processed batch.
package report

import (
	"errors"
	"fmt"

	"fjacquet/finance-summary/internal/aggregator"
	"fjacquet/finance-summary/internal/models"
)

// ErrYearNotAvailable is returned when the requested year has no transactions.
var ErrYearNotAvailable = errors.New("year not available")

// Summary is everything a report shows for one year.
type Summary struct {
	Year         int
	Years        []int
	DateRange    aggregator.DateRange
	Totals       aggregator.YearTotals
	Categories   []aggregator.CategoryTotal
	Months       []aggregator.MonthSummary
	Monthly      []aggregator.MonthlyTotal
	Transactions []models.Transaction // newest first
	Files        []aggregator.FileSummary
	Warnings     []string
}

// BuildSummary computes the rollups of a year. A zero year selects the most
// recent one.
func BuildSummary(set *aggregator.TransactionSet, year int, warnings []string) (*Summary, error) {
	if year == 0 {
		latest, ok := set.LatestYear()
		if !ok {
			return nil, fmt.Errorf("no transactions to summarize: %w", ErrYearNotAvailable)
		}
		year = latest
	}

	years := set.Years()
	if !containsYear(years, year) {
		return nil, fmt.Errorf("%d (available: %v): %w", year, years, ErrYearNotAvailable)
	}

	return &Summary{
		Year:         year,
		Years:        years,
		DateRange:    set.DateRange(),
		Totals:       set.Totals(year),
		Categories:   set.CategoryTotals(year),
		Months:       set.MonthlySummaries(year),
		Monthly:      set.MonthlyTotals(year),
		Transactions: set.TransactionsForYear(year),
		Files:        set.FileSummaries(),
		Warnings:     warnings,
	}, nil
}

func containsYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}
