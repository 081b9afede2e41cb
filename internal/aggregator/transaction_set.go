package aggregator

import (
	"sort"
	"time"

	"fjacquet/finance-summary/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionSet is the merged, validated view of one batch.
// It is rebuilt from scratch for every batch and never updated in place.
type TransactionSet struct {
	Transactions []models.Transaction // chronological
	Dropped      DropCounts
	Duplicates   int

	files []*FileSummary
}

// FileSummary holds per-file counts and sums over the rows that survived validation.
type FileSummary struct {
	File     string
	Rows     int // rows read
	Valid    int
	Dropped  int
	Income   decimal.Decimal
	Expenses decimal.Decimal // absolute value
}

func (s *FileSummary) add(tx models.Transaction) {
	s.Valid++
	if tx.IsIncome {
		s.Income = s.Income.Add(tx.Amount)
	} else {
		s.Expenses = s.Expenses.Add(tx.AbsAmount)
	}
}

// YearTotals is the income/expense split of one year.
type YearTotals struct {
	Year         int
	Income       decimal.Decimal
	Expenses     decimal.Decimal // absolute value
	NetSavings   decimal.Decimal
	Transactions int
}

// SavingsRate returns net savings as a percentage of income, 0 without income.
func (t YearTotals) SavingsRate() float64 {
	if !t.Income.IsPositive() {
		return 0
	}
	return t.NetSavings.Div(t.Income).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// CategoryTotal is the expense total of one processed category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
	Percent  float64 // share of the year's expenses
}

// MonthlyTotal is the expense total of one category in one month.
type MonthlyTotal struct {
	Month     time.Month
	MonthName string
	Category  string
	Total     decimal.Decimal
}

// MonthSummary is the income/expense split of one month.
type MonthSummary struct {
	Month     time.Month
	MonthName string
	Income    decimal.Decimal
	Expenses  decimal.Decimal
}

// Len returns the number of valid transactions.
func (s *TransactionSet) Len() int {
	return len(s.Transactions)
}

// FileSummaries returns per-file summaries in input order.
func (s *TransactionSet) FileSummaries() []FileSummary {
	out := make([]FileSummary, len(s.files))
	for i, f := range s.files {
		out[i] = *f
	}
	return out
}

// Years returns the distinct years present, ascending.
func (s *TransactionSet) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, tx := range s.Transactions {
		if !seen[tx.Year] {
			seen[tx.Year] = true
			years = append(years, tx.Year)
		}
	}
	sort.Ints(years)
	return years
}

// LatestYear returns the most recent year, the default year of a report.
func (s *TransactionSet) LatestYear() (int, bool) {
	years := s.Years()
	if len(years) == 0 {
		return 0, false
	}
	return years[len(years)-1], true
}

// DateRange returns the first and last transaction dates.
func (s *TransactionSet) DateRange() DateRange {
	if len(s.Transactions) == 0 {
		return DateRange{}
	}
	return DateRange{
		Start: s.Transactions[0].Date,
		End:   s.Transactions[len(s.Transactions)-1].Date,
	}
}

// TransactionsForYear returns the year's transactions, newest first.
func (s *TransactionSet) TransactionsForYear(year int) []models.Transaction {
	var out []models.Transaction
	for i := len(s.Transactions) - 1; i >= 0; i-- {
		if s.Transactions[i].Year == year {
			out = append(out, s.Transactions[i])
		}
	}
	return out
}

// Totals returns income, expenses and net savings for a year.
func (s *TransactionSet) Totals(year int) YearTotals {
	totals := YearTotals{Year: year}
	for _, tx := range s.Transactions {
		if tx.Year != year {
			continue
		}
		totals.Transactions++
		if tx.IsIncome {
			totals.Income = totals.Income.Add(tx.Amount)
		} else {
			totals.Expenses = totals.Expenses.Add(tx.AbsAmount)
		}
	}
	totals.NetSavings = totals.Income.Sub(totals.Expenses)
	return totals
}

// CategoryTotals sums expenses per processed category for a year, largest first.
func (s *TransactionSet) CategoryTotals(year int) []CategoryTotal {
	byCategory := make(map[string]*CategoryTotal)
	sum := decimal.Zero

	for _, tx := range s.Transactions {
		if tx.Year != year || tx.IsIncome {
			continue
		}
		ct, ok := byCategory[categoryOf(tx)]
		if !ok {
			ct = &CategoryTotal{Category: categoryOf(tx)}
			byCategory[ct.Category] = ct
		}
		ct.Total = ct.Total.Add(tx.AbsAmount)
		ct.Count++
		sum = sum.Add(tx.AbsAmount)
	}

	out := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		if sum.IsPositive() {
			ct.Percent = ct.Total.Div(sum).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlyTotals sums expenses per month and category for a year, ordered by
// calendar month and then category name.
func (s *TransactionSet) MonthlyTotals(year int) []MonthlyTotal {
	type key struct {
		month    time.Month
		category string
	}
	totals := make(map[key]decimal.Decimal)

	for _, tx := range s.Transactions {
		if tx.Year != year || tx.IsIncome {
			continue
		}
		k := key{tx.Month, categoryOf(tx)}
		totals[k] = totals[k].Add(tx.AbsAmount)
	}

	out := make([]MonthlyTotal, 0, len(totals))
	for k, total := range totals {
		out = append(out, MonthlyTotal{
			Month:     k.month,
			MonthName: k.month.String(),
			Category:  k.category,
			Total:     total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlySummaries returns income and expenses for each month of a year that
// has transactions, in calendar order.
func (s *TransactionSet) MonthlySummaries(year int) []MonthSummary {
	var months [13]*MonthSummary
	for _, tx := range s.Transactions {
		if tx.Year != year {
			continue
		}
		m := months[tx.Month]
		if m == nil {
			m = &MonthSummary{Month: tx.Month, MonthName: tx.MonthName}
			months[tx.Month] = m
		}
		if tx.IsIncome {
			m.Income = m.Income.Add(tx.Amount)
		} else {
			m.Expenses = m.Expenses.Add(tx.AbsAmount)
		}
	}

	var out []MonthSummary
	for _, m := range months {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// categoryOf falls back to Other for rows that skipped categorization.
func categoryOf(tx models.Transaction) string {
	if tx.ProcessedCategory == "" {
		return models.CategoryOther
	}
	return tx.ProcessedCategory
}
