package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/finance-summary/internal/currencyutils"
	"fjacquet/finance-summary/internal/dateutils"
	"fjacquet/finance-summary/internal/logging"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// DefaultRecentLimit is how many of the year's transactions the text report lists.
const DefaultRecentLimit = 10

// Options controls rendering.
type Options struct {
	Currency    string // "USD", "EUR", "CHF", ... or empty for bare numbers
	DateFormat  string // Go layout, ISO when empty
	Delimiter   rune   // CSV only, ',' when zero
	RecentLimit int    // text only
}

// Generator renders summaries in text, JSON or CSV.
type Generator struct {
	opts   Options
	logger logging.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(opts Options, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.DateFormat == "" {
		opts.DateFormat = dateutils.DateLayoutISO
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	return &Generator{opts: opts, logger: logger}
}

// Write renders the summary to w.
func (g *Generator) Write(w io.Writer, summary *Summary, format Format) error {
	var err error
	switch format {
	case FormatText:
		err = g.writeText(w, summary)
	case FormatJSON:
		err = g.writeJSON(w, summary)
	case FormatCSV:
		err = g.writeCSV(w, summary)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		g.logger.WithError(err).Error("Failed to render report", logging.F("format", string(format)))
		return fmt.Errorf("failed to render %s report: %w", format, err)
	}
	g.logger.Debug("Rendered report", logging.F("format", string(format)), logging.F(logging.FieldYear, summary.Year))
	return nil
}

func (g *Generator) money(d decimal.Decimal) string {
	return currencyutils.FormatAmount(d, g.opts.Currency)
}

func (g *Generator) writeText(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(tw, format, args...)
	}

	p("Financial summary %d\n", s.Year)
	if s.DateRange.String() != "" {
		p("Data from %s to %s\n", dateutils.FormatDate(s.DateRange.Start, g.opts.DateFormat),
			dateutils.FormatDate(s.DateRange.End, g.opts.DateFormat))
	}
	p("Years available: %s\n\n", joinYears(s.Years))

	p("Total income\t%s\n", g.money(s.Totals.Income))
	p("Total expenses\t%s\n", g.money(s.Totals.Expenses))
	p("Net savings\t%s\n", g.money(s.Totals.NetSavings))
	p("Savings rate\t%.1f%%\n", s.Totals.SavingsRate())
	p("Transactions\t%s\n", humanize.Comma(int64(s.Totals.Transactions)))

	if len(s.Categories) > 0 {
		p("\nTop categories\n")
		for _, c := range s.Categories {
			p("  %s\t%s\t%.1f%%\t%s\n", c.Category, g.money(c.Total), c.Percent, english.Plural(c.Count, "transaction", ""))
		}
	}

	if len(s.Months) > 0 {
		p("\nMonthly income and expenses\n")
		for _, m := range s.Months {
			p("  %s\t%s\t%s\n", m.MonthName, g.money(m.Income), g.money(m.Expenses))
		}
	}

	if len(s.Monthly) > 0 {
		p("\nMonthly expenses by category\n")
		for _, m := range s.Monthly {
			p("  %s\t%s\t%s\n", m.MonthName, m.Category, g.money(m.Total))
		}
	}

	if len(s.Transactions) > 0 {
		p("\nRecent transactions\n")
		for i, tx := range s.Transactions {
			if i == g.opts.RecentLimit {
				p("  ... %s more\n", humanize.Comma(int64(len(s.Transactions)-i)))
				break
			}
			p("  %s\t%s\t%s\t%s\n", dateutils.FormatDate(tx.Date, g.opts.DateFormat), tx.Description,
				g.money(tx.Amount), tx.ProcessedCategory)
		}
	}

	if len(s.Files) > 0 {
		p("\nFiles\n")
		for _, f := range s.Files {
			p("  %s\t%s read\t%s valid\t%s dropped\n", f.File,
				humanize.Comma(int64(f.Rows)), humanize.Comma(int64(f.Valid)), humanize.Comma(int64(f.Dropped)))
		}
	}

	if len(s.Warnings) > 0 {
		p("\nWarnings\n")
		for _, warning := range s.Warnings {
			p("  - %s\n", warning)
		}
	}

	return tw.Flush()
}

type jsonSummary struct {
	Year         int               `json:"year"`
	Years        []int             `json:"years"`
	From         string            `json:"from,omitempty"`
	To           string            `json:"to,omitempty"`
	Income       decimal.Decimal   `json:"income"`
	Expenses     decimal.Decimal   `json:"expenses"`
	NetSavings   decimal.Decimal   `json:"net_savings"`
	SavingsRate  float64           `json:"savings_rate"`
	Count        int               `json:"transaction_count"`
	Categories   []jsonCategory    `json:"categories"`
	Months       []jsonMonth       `json:"months"`
	Monthly      []jsonMonthly     `json:"monthly_categories"`
	Transactions []jsonTransaction `json:"transactions"`
	Files        []jsonFile        `json:"files"`
	Warnings     []string          `json:"warnings"`
}

type jsonCategory struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Percent  float64         `json:"percent"`
}

type jsonMonth struct {
	Month    int             `json:"month"`
	Name     string          `json:"name"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

type jsonMonthly struct {
	Month    int             `json:"month"`
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type jsonTransaction struct {
	Date             string          `json:"date"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category"`
	OriginalCategory string          `json:"original_category,omitempty"`
	SourceFile       string          `json:"source_file"`
}

type jsonFile struct {
	File     string          `json:"file"`
	Rows     int             `json:"rows"`
	Valid    int             `json:"valid"`
	Dropped  int             `json:"dropped"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

func (g *Generator) writeJSON(w io.Writer, s *Summary) error {
	out := jsonSummary{
		Year:         s.Year,
		Years:        s.Years,
		From:         dateutils.FormatDate(s.DateRange.Start, g.opts.DateFormat),
		To:           dateutils.FormatDate(s.DateRange.End, g.opts.DateFormat),
		Income:       s.Totals.Income,
		Expenses:     s.Totals.Expenses,
		NetSavings:   s.Totals.NetSavings,
		SavingsRate:  decimal.NewFromFloat(s.Totals.SavingsRate()).Round(2).InexactFloat64(),
		Count:        s.Totals.Transactions,
		Categories:   make([]jsonCategory, 0, len(s.Categories)),
		Months:       make([]jsonMonth, 0, len(s.Months)),
		Monthly:      make([]jsonMonthly, 0, len(s.Monthly)),
		Transactions: make([]jsonTransaction, 0, len(s.Transactions)),
		Files:        make([]jsonFile, 0, len(s.Files)),
		Warnings:     append([]string{}, s.Warnings...),
	}
	for _, c := range s.Categories {
		out.Categories = append(out.Categories, jsonCategory{c.Category, c.Total, c.Count, c.Percent})
	}
	for _, m := range s.Months {
		out.Months = append(out.Months, jsonMonth{int(m.Month), m.MonthName, m.Income, m.Expenses})
	}
	for _, m := range s.Monthly {
		out.Monthly = append(out.Monthly, jsonMonthly{int(m.Month), m.Category, m.Total})
	}
	for _, tx := range s.Transactions {
		out.Transactions = append(out.Transactions, jsonTransaction{
			Date:             dateutils.FormatDate(tx.Date, g.opts.DateFormat),
			Description:      tx.Description,
			Amount:           tx.Amount,
			Category:         tx.ProcessedCategory,
			OriginalCategory: tx.Category,
			SourceFile:       tx.SourceFile,
		})
	}
	for _, f := range s.Files {
		out.Files = append(out.Files, jsonFile{f.File, f.Rows, f.Valid, f.Dropped, f.Income, f.Expenses})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// MonthlyRow is one line of the CSV summary: the expenses of a category in a month.
type MonthlyRow struct {
	Year      int    `csv:"year"`
	Month     int    `csv:"month"`
	MonthName string `csv:"month_name"`
	Category  string `csv:"category"`
	Total     string `csv:"total"`
}

func (g *Generator) writeCSV(w io.Writer, s *Summary) error {
	rows := make([]MonthlyRow, 0, len(s.Monthly))
	for _, m := range s.Monthly {
		rows = append(rows, MonthlyRow{
			Year:      s.Year,
			Month:     int(m.Month),
			MonthName: m.MonthName,
			Category:  m.Category,
			Total:     m.Total.StringFixed(2),
		})
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.opts.Delimiter
	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter))
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprint(y)
	}
	return strings.Join(parts, ", ")
}
