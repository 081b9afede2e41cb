// Package normalizer turns one statement file of arbitrary shape into
// canonical transaction rows: it decodes the text, reads the CSV table,
// detects headerless files, resolves columns, sniffs missing date and amount
// columns, and coerces every cell.
package normalizer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"fjacquet/finance-summary/internal/currencyutils"
	"fjacquet/finance-summary/internal/dateutils"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
	"fjacquet/finance-summary/internal/parsererror"
	"fjacquet/finance-summary/internal/resolver"
	"fjacquet/finance-summary/internal/textenc"

	"github.com/shopspring/decimal"
)

// Options tunes the detection heuristics.
type Options struct {
	Delimiter           rune
	SampleSize          int
	DateThreshold       float64 // share of sampled cells a date layout or date shape must exceed
	AmountThreshold     float64 // share of sampled cells that must parse for a sniffed amount column
	AmountMeanMin       float64
	AmountMeanMax       float64
	HeaderlessScanCells int
}

// DefaultOptions returns the standard heuristics.
func DefaultOptions() Options {
	return Options{
		Delimiter:           ',',
		SampleSize:          100,
		DateThreshold:       dateutils.DefaultThreshold,
		AmountThreshold:     0.7,
		AmountMeanMin:       0.01,
		AmountMeanMax:       1_000_000,
		HeaderlessScanCells: DefaultHeaderlessScanCells,
	}
}

// Sources recorded in a FileReport.
const (
	SourceNone        = "none"
	SourceAlias       = "alias"
	SourceDebitCredit = "debit/credit"
	SourceSniffed     = "sniffed"
)

// FileReport describes how one file was interpreted.
type FileReport struct {
	File            string
	Encoding        textenc.Encoding
	Headerless      bool
	Columns         []string
	Mapping         resolver.ColumnMapping
	DateColumn      string
	DateSource      string
	DateLayout      string
	AmountColumns   []string
	AmountSource    string
	Rows            int
	AmountDefaulted int
	DatesAbsent     int
}

// FileNormalizer normalizes single files. It keeps no state between calls.
type FileNormalizer struct {
	resolver *resolver.Resolver
	opts     Options
	logger   logging.Logger
}

// NewFileNormalizer creates a FileNormalizer. Zero-valued options fall back to DefaultOptions.
func NewFileNormalizer(r *resolver.Resolver, opts Options, logger logging.Logger) *FileNormalizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	def := DefaultOptions()
	if opts.Delimiter == 0 {
		opts.Delimiter = def.Delimiter
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = def.SampleSize
	}
	if opts.DateThreshold <= 0 {
		opts.DateThreshold = def.DateThreshold
	}
	if opts.AmountThreshold <= 0 {
		opts.AmountThreshold = def.AmountThreshold
	}
	if opts.AmountMeanMax <= opts.AmountMeanMin {
		opts.AmountMeanMin, opts.AmountMeanMax = def.AmountMeanMin, def.AmountMeanMax
	}
	if opts.HeaderlessScanCells <= 0 {
		opts.HeaderlessScanCells = def.HeaderlessScanCells
	}
	return &FileNormalizer{resolver: r, opts: opts, logger: logger}
}

// Normalize converts one file's bytes into canonical rows.
// Row-level problems never fail the file; they show up as defaulted statuses
// and in the report counters.
func (n *FileNormalizer) Normalize(name string, data []byte) ([]models.CanonicalTransaction, *FileReport, error) {
	table, enc, err := n.ReadTable(name, data)
	if err != nil {
		return nil, nil, err
	}

	report := &FileReport{File: name, Encoding: enc, Columns: table.Header}

	if LooksHeaderless(table.Header, n.opts.HeaderlessScanCells) {
		report.Headerless = true
		table.Rows = append([][]string{table.Header}, table.Rows...)
		table.Header = PositionalNames(len(table.Header))
		report.Columns = table.Header
		report.Mapping = positionalMapping(table.Header)
		n.logger.Debug("File has no header row, using positional columns",
			logging.F(logging.FieldFile, name),
			logging.F(logging.FieldColumn, strings.Join(table.Header, ",")))
	} else {
		for i, h := range table.Header {
			if h == "" {
				table.Header[i] = placeholder(i + 1)
			}
		}
		report.Columns = table.Header
		report.Mapping = n.resolver.ResolveAll(table.Header)
	}

	cols := newColumnIndex(table)
	dates := n.coerceDates(table, cols, report)
	amounts := n.coerceAmounts(table, cols, report, dates.column)

	rows := make([]models.CanonicalTransaction, len(table.Rows))
	for i := range table.Rows {
		rows[i] = models.CanonicalTransaction{
			Date:         dates.results[i].Value,
			DateStatus:   dates.results[i].Status,
			Amount:       amounts[i].Value,
			AmountStatus: amounts[i].Status,
			Description:  cols.cell(i, report.Mapping[models.FieldDescription]),
			Category:     cols.cell(i, report.Mapping[models.FieldCategory]),
			Type:         cols.cell(i, report.Mapping[models.FieldType]),
			Memo:         cols.cell(i, report.Mapping[models.FieldMemo]),
			SourceFile:   name,
		}
		if amounts[i].Defaulted() {
			report.AmountDefaulted++
		}
		if dates.results[i].Defaulted() {
			report.DatesAbsent++
		}
	}
	report.Rows = len(rows)

	n.logger.Info("Normalized file",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldEncoding, string(enc)),
		logging.F(logging.FieldCount, len(rows)),
		logging.F("date_source", report.DateSource),
		logging.F("amount_source", report.AmountSource))

	return rows, report, nil
}

// ReadTable decodes the bytes and reads them as a CSV table. Blank lines and
// rows of empty cells are skipped; short rows are padded to the widest row.
// The first record is returned as the header, whatever it contains.
func (n *FileNormalizer) ReadTable(name string, data []byte) (*models.RawTable, textenc.Encoding, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", fmt.Errorf("%s: %w", name, parsererror.ErrEmptyFile)
	}

	text, enc, err := textenc.Decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = n.opts.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", &parsererror.InvalidFormatError{
				FilePath:             name,
				ExpectedFormat:       "CSV",
				ActualContentSnippet: snippet(text),
				Msg:                  "unreadable CSV structure",
				Err:                  err,
			}
		}
		if isBlankRecord(record) {
			continue
		}
		records = append(records, trimCells(record))
	}
	if len(records) == 0 {
		return nil, "", fmt.Errorf("%s: %w", name, parsererror.ErrEmptyFile)
	}

	width := 0
	for _, r := range records {
		width = max(width, len(r))
	}
	header := pad(records[0], width)
	rows := make([][]string, 0, len(records)-1)
	for _, r := range records[1:] {
		rows = append(rows, pad(r, width))
	}

	return &models.RawTable{Name: name, Header: header, Rows: rows}, enc, nil
}

type dateColumn struct {
	column  string
	results []models.DateResult
}

func (n *FileNormalizer) coerceDates(table *models.RawTable, cols columnIndex, report *FileReport) dateColumn {
	column, ok := report.Mapping[models.FieldDate]
	source := SourceAlias
	if !ok {
		column, ok = n.sniffDateColumn(table, cols, report.Mapping)
		source = SourceSniffed
	}

	if !ok {
		report.DateSource = SourceNone
		n.logger.Warn("No date column found, every row will be dropped",
			logging.F(logging.FieldFile, table.Name))
		results := make([]models.DateResult, len(table.Rows))
		for i := range results {
			results[i] = models.DateResult{Status: models.StatusDefaulted}
		}
		return dateColumn{results: results}
	}

	values := cols.values(column)
	results, layout := dateutils.ParseColumn(values, n.sample(values), n.opts.DateThreshold)

	report.DateColumn = column
	report.DateSource = source
	report.DateLayout = layout
	n.logger.Debug("Date column selected",
		logging.F(logging.FieldFile, table.Name),
		logging.F(logging.FieldColumn, column),
		logging.F(logging.FieldLayout, layout),
		logging.F(logging.FieldReason, source))

	return dateColumn{column: column, results: results}
}

func (n *FileNormalizer) sniffDateColumn(table *models.RawTable, cols columnIndex, mapping resolver.ColumnMapping) (string, bool) {
	used := mapping.Headers()
	for _, h := range table.Header {
		if used[h] {
			continue
		}
		if dateutils.LooksLikeDateColumn(n.sample(cols.values(h)), n.opts.DateThreshold) {
			return h, true
		}
	}
	return "", false
}

func (n *FileNormalizer) coerceAmounts(table *models.RawTable, cols columnIndex, report *FileReport, dateCol string) []models.AmountResult {
	results := make([]models.AmountResult, len(table.Rows))
	mapping := report.Mapping

	switch {
	case mapping.Has(models.FieldAmount):
		column := mapping[models.FieldAmount]
		for i, v := range cols.values(column) {
			results[i] = currencyutils.CleanAmount(v)
		}
		report.AmountSource = SourceAlias
		report.AmountColumns = []string{column}

	case mapping.Has(models.FieldDebit) || mapping.Has(models.FieldCredit):
		debitCol, creditCol := mapping[models.FieldDebit], mapping[models.FieldCredit]
		for i := range table.Rows {
			results[i] = currencyutils.CombineDebitCredit(
				currencyutils.CleanAmount(cols.cell(i, debitCol)),
				currencyutils.CleanAmount(cols.cell(i, creditCol)),
			)
		}
		report.AmountSource = SourceDebitCredit
		for _, c := range []string{debitCol, creditCol} {
			if c != "" {
				report.AmountColumns = append(report.AmountColumns, c)
			}
		}

	default:
		column, ok := n.sniffAmountColumn(table, cols, mapping, dateCol)
		if !ok {
			report.AmountSource = SourceNone
			n.logger.Warn("No amount column found, amounts default to zero",
				logging.F(logging.FieldFile, table.Name))
			for i := range results {
				results[i] = models.AmountResult{Value: decimal.Zero, Status: models.StatusDefaulted}
			}
			return results
		}
		for i, v := range cols.values(column) {
			results[i] = currencyutils.CleanAmount(v)
		}
		report.AmountSource = SourceSniffed
		report.AmountColumns = []string{column}
		n.logger.Debug("Amount column sniffed from content",
			logging.F(logging.FieldFile, table.Name),
			logging.F(logging.FieldColumn, column))
	}
	return results
}

// sniffAmountColumn picks the first unmapped column whose sampled non-empty
// values mostly parse as numbers with a plausible mean magnitude.
func (n *FileNormalizer) sniffAmountColumn(table *models.RawTable, cols columnIndex, mapping resolver.ColumnMapping, dateCol string) (string, bool) {
	used := mapping.Headers()
	for _, h := range table.Header {
		if used[h] || h == dateCol {
			continue
		}
		if n.plausibleAmounts(n.sample(cols.values(h))) {
			return h, true
		}
	}
	return "", false
}

func (n *FileNormalizer) plausibleAmounts(sample []string) bool {
	total, parsed := 0, 0
	sum := 0.0
	for _, v := range sample {
		if strings.TrimSpace(v) == "" {
			continue
		}
		total++
		r := currencyutils.CleanAmount(v)
		if r.Defaulted() {
			continue
		}
		parsed++
		f, _ := r.Value.Abs().Float64()
		sum += f
	}
	if total == 0 || parsed == 0 {
		return false
	}
	if float64(parsed)/float64(total) < n.opts.AmountThreshold {
		return false
	}
	mean := sum / float64(parsed)
	return !math.IsNaN(mean) && mean >= n.opts.AmountMeanMin && mean <= n.opts.AmountMeanMax
}

func (n *FileNormalizer) sample(values []string) []string {
	if len(values) > n.opts.SampleSize {
		return values[:n.opts.SampleSize]
	}
	return values
}

// columnIndex gives by-name access to a table whose rows are padded to the header width.
type columnIndex struct {
	table *models.RawTable
	index map[string]int
}

func newColumnIndex(table *models.RawTable) columnIndex {
	index := make(map[string]int, len(table.Header))
	for i, h := range table.Header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return columnIndex{table: table, index: index}
}

func (c columnIndex) cell(row int, column string) string {
	if column == "" {
		return ""
	}
	idx, ok := c.index[column]
	if !ok {
		return ""
	}
	return c.table.Rows[row][idx]
}

func (c columnIndex) values(column string) []string {
	out := make([]string, len(c.table.Rows))
	for i := range c.table.Rows {
		out[i] = c.cell(i, column)
	}
	return out
}

func positionalMapping(names []string) resolver.ColumnMapping {
	mapping := make(resolver.ColumnMapping)
	for _, name := range names {
		switch name {
		case models.FieldDate, models.FieldDescription, models.FieldAmount:
			mapping[name] = name
		}
	}
	return mapping
}

func isBlankRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimCells(record []string) []string {
	out := make([]string, len(record))
	for i, c := range record {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func pad(record []string, width int) []string {
	if len(record) >= width {
		return record
	}
	out := make([]string, width)
	copy(out, record)
	return out
}

// snippet cuts text to at most 80 bytes without splitting a rune.
func snippet(text string) string {
	const limit = 80
	if len(text) <= limit {
		return text
	}
	end := limit
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[:end]
}
