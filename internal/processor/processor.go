// Package processor runs a batch of statement files through normalization,
// categorization and aggregation.
package processor

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"fjacquet/finance-summary/internal/aggregator"
	"fjacquet/finance-summary/internal/cache"
	"fjacquet/finance-summary/internal/categorizer"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/normalizer"
	"fjacquet/finance-summary/internal/parsererror"

	"github.com/google/uuid"
)

// Input is one named file of a batch.
type Input struct {
	Name string
	Data []byte
}

// FileOutcome records what happened to one input file.
type FileOutcome struct {
	Name     string
	Checksum string                 // SHA-256 of the raw content
	Report   *normalizer.FileReport // nil when the file failed
	Err      error
}

// Failed reports whether the file was skipped.
func (o FileOutcome) Failed() bool {
	return o.Err != nil
}

// BatchReport collects the per-file outcomes and warnings of a batch.
type BatchReport struct {
	RunID          string
	Files          []FileOutcome
	Categorization *categorizer.CategorizationStats
	Dropped        aggregator.DropCounts
	Duplicates     int
	Cached         bool
}

// Failures returns the errors of skipped files.
func (r *BatchReport) Failures() []error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Warnings returns human-readable notes on degraded files.
func (r *BatchReport) Warnings() []string {
	var warnings []string
	for _, f := range r.Files {
		switch {
		case f.Err != nil:
			warnings = append(warnings, f.Err.Error())
		case f.Report.AmountSource == normalizer.SourceNone:
			warnings = append(warnings, fmt.Sprintf("%s: no amount column found", f.Name))
		case f.Report.DateSource == normalizer.SourceNone:
			warnings = append(warnings, fmt.Sprintf("%s: no date column found", f.Name))
		}
	}
	if n := r.Dropped.Total(); n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d row(s) dropped: %d without a date, %d with a zero amount",
			n, r.Dropped.MissingDate, r.Dropped.ZeroAmount))
	}
	if r.Duplicates > 0 {
		warnings = append(warnings, fmt.Sprintf("%d potential duplicate transaction(s)", r.Duplicates))
	}
	return warnings
}

// Result is the outcome of a successful batch.
type Result struct {
	Set    *aggregator.TransactionSet
	Report *BatchReport
}

// Processor owns the pipeline components. It keeps no state between batches
// apart from the optional result cache.
type Processor struct {
	normalizer  *normalizer.FileNormalizer
	categorizer *categorizer.Categorizer
	aggregator  *aggregator.Aggregator
	cache       cache.Cache[*Result]
	logger      logging.Logger
}

// NewProcessor wires a processor. A nil cache disables caching.
func NewProcessor(
	n *normalizer.FileNormalizer,
	c *categorizer.Categorizer,
	a *aggregator.Aggregator,
	resultCache cache.Cache[*Result],
	logger logging.Logger,
) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Processor{
		normalizer:  n,
		categorizer: c,
		aggregator:  a,
		cache:       resultCache,
		logger:      logger,
	}
}

// ProcessBatch normalizes and categorizes every input, then aggregates the
// surviving rows. A file that cannot be read is skipped and recorded in the
// report. When no file yields a single valid row the batch fails with a
// *parsererror.BatchError wrapping parsererror.ErrNoValidData.
func (p *Processor) ProcessBatch(ctx context.Context, inputs []Input) (*Result, error) {
	key := CacheKey(inputs)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			p.logger.Debug("Batch served from cache", logging.F(logging.FieldCacheKey, key[:12]))
			report := *cached.Report
			report.Cached = true
			return &Result{Set: cached.Set, Report: &report}, nil
		}
	}

	files, report, err := p.NormalizeBatch(ctx, inputs)
	if err != nil {
		return nil, err
	}

	set := p.aggregator.Aggregate(files)
	report.Dropped = set.Dropped
	report.Duplicates = set.Duplicates

	if set.Len() == 0 {
		failures := report.Failures()
		p.logger.Error("No valid transactions in batch",
			logging.F(logging.FieldCount, len(inputs)),
			logging.F("failed", len(failures)))
		return nil, &parsererror.BatchError{Files: len(inputs), Failures: failures, Err: parsererror.ErrNoValidData}
	}

	result := &Result{Set: set, Report: report}
	if p.cache != nil {
		p.cache.Set(key, result)
		p.logger.Debug("Cached batch result",
			logging.F(logging.FieldCacheKey, key),
			logging.F("cache_size", p.cache.Size()))
	}
	return result, nil
}

// NormalizeBatch normalizes and categorizes each input without aggregating.
// Rows keep their degraded values so callers can export them as read.
// The only error is context cancellation.
func (p *Processor) NormalizeBatch(ctx context.Context, inputs []Input) ([]aggregator.NormalizedFile, *BatchReport, error) {
	report := &BatchReport{
		RunID:          uuid.NewString(),
		Categorization: categorizer.NewCategorizationStats(),
	}
	logger := p.logger.WithField("run_id", report.RunID)
	logger.Info("Processing batch", logging.F(logging.FieldCount, len(inputs)))

	var files []aggregator.NormalizedFile

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("batch cancelled: %w", err)
		}

		sum := sha256.Sum256(in.Data)
		outcome := FileOutcome{Name: in.Name, Checksum: hex.EncodeToString(sum[:])}

		rows, fileReport, err := p.normalizer.Normalize(in.Name, in.Data)
		if err != nil {
			outcome.Err = &parsererror.FileError{File: in.Name, Err: err}
			logger.WithError(err).Warn("Skipping file",
				logging.F(logging.FieldFile, in.Name),
				logging.F(logging.FieldReason, reason(err)))
			report.Files = append(report.Files, outcome)
			continue
		}

		p.categorizer.CategorizeInto(rows, report.Categorization)
		outcome.Report = fileReport
		report.Files = append(report.Files, outcome)
		files = append(files, aggregator.NormalizedFile{Name: in.Name, Rows: rows})
	}

	report.Categorization.LogSummary(logger)
	return files, report, nil
}

// CacheKey hashes the ordered (name, content) pairs of a batch. Lengths are
// written before each part so no two batches share a key by concatenation.
func CacheKey(inputs []Input) string {
	h := sha256.New()
	var size [8]byte
	for _, in := range inputs {
		for _, part := range [][]byte{[]byte(in.Name), in.Data} {
			binary.BigEndian.PutUint64(size[:], uint64(len(part)))
			h.Write(size[:])
			h.Write(part)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func reason(err error) string {
	var formatErr *parsererror.InvalidFormatError
	switch {
	case errors.Is(err, parsererror.ErrEmptyFile):
		return "empty"
	case errors.Is(err, parsererror.ErrUnsupportedEncoding):
		return "encoding"
	case errors.As(err, &formatErr):
		return "format"
	default:
		return "unknown"
	}
}
