package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileError(t *testing.T) {
	err := &FileError{File: "chase.csv", Err: ErrEmptyFile}

	assert.Equal(t, "error loading chase.csv: file is empty", err.Error())
	assert.True(t, errors.Is(err, ErrEmptyFile))

	wrapped := fmt.Errorf("batch: %w", err)
	var fileErr *FileError
	assert.True(t, errors.As(wrapped, &fileErr))
	assert.Equal(t, "chase.csv", fileErr.File)
}

func TestParseError(t *testing.T) {
	original := errors.New("invalid decimal")
	err := &ParseError{Field: "amount", Value: "abc", Err: original}

	assert.Equal(t, "failed to parse amount='abc': invalid decimal", err.Error())
	assert.Equal(t, original, err.Unwrap())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{FilePath: "rules.yaml", Reason: "no categories defined"}
	assert.Equal(t, "validation failed for rules.yaml: no categories defined", err.Error())
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name: "without snippet",
			err: &InvalidFormatError{
				FilePath:       "a.csv",
				ExpectedFormat: "CSV",
				Msg:            "unterminated quote",
			},
			expected: "invalid format in file 'a.csv': unterminated quote. Expected: CSV",
		},
		{
			name: "with snippet and cause",
			err: &InvalidFormatError{
				FilePath:             "b.csv",
				ExpectedFormat:       "CSV",
				ActualContentSnippet: "\"Date,Amount",
				Msg:                  "unterminated quote",
				Err:                  errors.New("parse error"),
			},
			expected: "invalid format in file 'b.csv': unterminated quote. Expected: CSV. Content snippet: '\"Date,Amount': parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestBatchError(t *testing.T) {
	err := &BatchError{
		Files:    2,
		Failures: []error{&FileError{File: "a.csv", Err: ErrEmptyFile}},
		Err:      ErrNoValidData,
	}

	assert.Equal(t, "no valid transactions in batch (2 file(s), 1 failed)", err.Error())
	assert.True(t, errors.Is(err, ErrNoValidData))
}
