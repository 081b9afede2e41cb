package report

import (
	"errors"
	"strings"

	"fjacquet/finance-summary/internal/parsererror"
)

// Format is an output format of the summary report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is wrapped by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat maps a user-supplied name to a Format, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", &parsererror.ParseError{Field: "format", Value: name, Err: ErrUnknownFormat}
	}
}
