// Package parsererror defines the error taxonomy of the ingestion pipeline:
// file-level failures that isolate one input, and batch-level failures that
// abort a whole run.
package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile is returned when a file has no rows at all.
	ErrEmptyFile = errors.New("file is empty")

	// ErrUnsupportedEncoding is returned when none of the fallback encodings
	// can decode the input.
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")

	// ErrNoValidData is the batch-level failure: no file produced a single
	// valid transaction.
	ErrNoValidData = errors.New("no valid transactions in batch")
)

// FileError isolates the failure of one input file inside a batch.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("error loading %s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ParseError represents a value that could not be coerced.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a configuration or input validation failure.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an input that is not a readable CSV table.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // optional, for debugging
	Msg                  string
	Err                  error
}

func (e *InvalidFormatError) Error() string {
	msg := fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
	if e.ActualContentSnippet != "" {
		msg += fmt.Sprintf(". Content snippet: '%s'", e.ActualContentSnippet)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// BatchError reports that a batch produced no usable data. Failures holds the
// per-file errors collected along the way.
type BatchError struct {
	Files    int
	Failures []error
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%v (%d file(s), %d failed)", e.Err, e.Files, len(e.Failures))
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
