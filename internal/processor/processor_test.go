package processor

import (
	"context"
	"errors"
	"testing"

	"fjacquet/finance-summary/internal/aggregator"
	"fjacquet/finance-summary/internal/cache"
	"fjacquet/finance-summary/internal/categorizer"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/normalizer"
	"fjacquet/finance-summary/internal/parsererror"
	"fjacquet/finance-summary/internal/resolver"
	"fjacquet/finance-summary/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chaseExport = "Transaction Date,Description,Category,Amount\n" +
	"01/05/2024,STARBUCKS COFFEE #123,Food & Drink,-5.75\n" +
	"01/15/2024,ACME PAYROLL,,2500.00\n" +
	"01/20/2024,SHELL OIL 5544,Travel,-40.00\n"

const bankExport = "Date,Description,Debit,Credit\n" +
	"2023-12-30,PETCO STORE,25.00,\n" +
	"2024-02-01,RENT FEBRUARY,1500.00,\n" +
	"not a date,LOST ROW,1.00,\n"

func newTestProcessor(t *testing.T, c cache.Cache[*Result]) (*Processor, *logging.MockLogger) {
	t.Helper()
	rules, err := store.DefaultRules()
	require.NoError(t, err)
	logger := logging.NewMockLogger()
	return NewProcessor(
		normalizer.NewFileNormalizer(resolver.NewResolver(rules.Aliases, logger), normalizer.Options{}, logger),
		categorizer.NewCategorizer(rules, logger),
		aggregator.NewAggregator(logger),
		c,
		logger,
	), logger
}

func TestProcessBatch(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	result, err := p.ProcessBatch(context.Background(), []Input{
		{Name: "chase.csv", Data: []byte(chaseExport)},
		{Name: "bank.csv", Data: []byte(bankExport)},
	})
	require.NoError(t, err)

	set := result.Set
	assert.Equal(t, 5, set.Len())
	assert.Equal(t, []int{2023, 2024}, set.Years())
	assert.Equal(t, 1, result.Report.Dropped.MissingDate)

	categories := map[string]string{}
	for _, tx := range set.Transactions {
		categories[tx.Description] = tx.ProcessedCategory
	}
	assert.Equal(t, "Dining", categories["STARBUCKS COFFEE #123"])
	assert.Equal(t, "Utilities", categories["SHELL OIL 5544"], "keyword beats the bank's category")
	assert.Equal(t, "Other", categories["ACME PAYROLL"])

	stats := result.Report.Categorization
	assert.Equal(t, 6, stats.Total, "every normalized row is categorized, dropped ones included")
	assert.False(t, result.Report.Cached)
	assert.Empty(t, result.Report.Failures())
	assert.Len(t, result.Report.Warnings(), 1)
}

func TestProcessBatch_IsolatesFileFailures(t *testing.T) {
	p, logger := newTestProcessor(t, nil)

	result, err := p.ProcessBatch(context.Background(), []Input{
		{Name: "empty.csv", Data: nil},
		{Name: "chase.csv", Data: []byte(chaseExport)},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Set.Len())
	require.Len(t, result.Report.Files, 2)

	failed := result.Report.Files[0]
	assert.True(t, failed.Failed())
	var fileErr *parsererror.FileError
	require.True(t, errors.As(failed.Err, &fileErr))
	assert.Equal(t, "empty.csv", fileErr.File)
	assert.ErrorIs(t, failed.Err, parsererror.ErrEmptyFile)
	assert.True(t, logger.HasEntry("WARN", "Skipping file"))

	assert.False(t, result.Report.Files[1].Failed())
	assert.Len(t, result.Report.Files[1].Checksum, 64)
	assert.NotEmpty(t, result.Report.RunID)
	assert.Contains(t, result.Report.Warnings()[0], "error loading empty.csv")
}

func TestProcessBatch_NoValidData(t *testing.T) {
	p, logger := newTestProcessor(t, nil)

	result, err := p.ProcessBatch(context.Background(), []Input{
		{Name: "empty.csv", Data: []byte("\n")},
		{Name: "nodate.csv", Data: []byte("Description,Amount\nCoffee,-3\n")},
	})
	assert.Nil(t, result)
	require.ErrorIs(t, err, parsererror.ErrNoValidData)

	var batchErr *parsererror.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 2, batchErr.Files)
	assert.Len(t, batchErr.Failures, 1)
	assert.True(t, logger.HasEntry("ERROR", "No valid transactions in batch"))
}

func TestProcessBatch_ExponentAmountIsDropped(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	result, err := p.ProcessBatch(context.Background(), []Input{{
		Name: "sci.csv",
		Data: []byte("Date,Description,Amount\n2024-01-02,A,1e999999999\n2024-01-03,B,-10.50\n"),
	}})
	require.NoError(t, err)

	require.Equal(t, 1, result.Set.Len())
	assert.Equal(t, "B", result.Set.Transactions[0].Description)
	assert.Equal(t, 1, result.Report.Dropped.ZeroAmount)
}

func TestProcessBatch_EmptyBatch(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	_, err := p.ProcessBatch(context.Background(), nil)
	assert.ErrorIs(t, err, parsererror.ErrNoValidData)
}

func TestProcessBatch_Cancelled(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessBatch(ctx, []Input{{Name: "chase.csv", Data: []byte(chaseExport)}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessBatch_Cache(t *testing.T) {
	c := cache.NewLRUCache[*Result](4)
	p, logger := newTestProcessor(t, c)
	inputs := []Input{{Name: "chase.csv", Data: []byte(chaseExport)}}

	first, err := p.ProcessBatch(context.Background(), inputs)
	require.NoError(t, err)
	assert.False(t, first.Report.Cached)
	assert.Equal(t, 1, c.Size())
	assert.True(t, logger.HasEntry("DEBUG", "Cached batch result"))

	second, err := p.ProcessBatch(context.Background(), inputs)
	require.NoError(t, err)
	assert.True(t, second.Report.Cached)
	assert.False(t, first.Report.Cached, "cached report is copied")
	assert.Same(t, first.Set, second.Set)
}

func TestProcessBatch_Deterministic(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	inputs := []Input{
		{Name: "chase.csv", Data: []byte(chaseExport)},
		{Name: "bank.csv", Data: []byte(bankExport)},
	}

	first, err := p.ProcessBatch(context.Background(), inputs)
	require.NoError(t, err)
	second, err := p.ProcessBatch(context.Background(), inputs)
	require.NoError(t, err)

	assert.Equal(t, first.Set.Transactions, second.Set.Transactions)
}

func TestNormalizeBatch_KeepsDegradedRows(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	files, report, err := p.NormalizeBatch(context.Background(), []Input{{Name: "bank.csv", Data: []byte(bankExport)}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Len(t, files[0].Rows, 3)
	assert.Equal(t, "Shopping", files[0].Rows[0].ProcessedCategory)
	assert.Equal(t, 3, report.Categorization.Total)
}

func TestCacheKey(t *testing.T) {
	a := []Input{{Name: "a.csv", Data: []byte("x")}, {Name: "b.csv", Data: []byte("y")}}
	reordered := []Input{a[1], a[0]}
	shifted := []Input{{Name: "a.csvx", Data: nil}, {Name: "b.csv", Data: []byte("y")}}

	assert.Equal(t, CacheKey(a), CacheKey([]Input{a[0], a[1]}))
	assert.NotEqual(t, CacheKey(a), CacheKey(reordered))
	assert.NotEqual(t, CacheKey(a), CacheKey(shifted))
	assert.Len(t, CacheKey(nil), 64)
}
