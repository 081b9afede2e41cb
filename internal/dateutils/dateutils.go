// Package dateutils provides date detection and coercion used throughout the application.
package dateutils

import (
	"regexp"
	"strings"
	"time"

	"fjacquet/finance-summary/internal/models"

	"github.com/araddon/dateparse"
)

// Date layouts recognized in statement exports.
const (
	DateLayoutUS        = "1/2/2006"
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "2/1/2006"
	DateLayoutUSShort   = "1/2/06"
	DateLayoutEuroShort = "2/1/06"
)

// CandidateLayouts is the fixed priority order used by DetectLayout.
// Month-first wins over day-first when a column is ambiguous.
var CandidateLayouts = []string{
	DateLayoutUS,
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutUSShort,
	DateLayoutEuroShort,
}

// DefaultThreshold is the share of a sample a layout must parse to win.
const DefaultThreshold = 0.5

var (
	whitespace = regexp.MustCompile(`\s+`)
	dateShape  = regexp.MustCompile(`(?i)^(\d{1,4}[/.\-]\d{1,2}[/.\-]\d{1,4}|\d{1,2}[ \-](jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[ \-,]+\d{2,4}|(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]* \d{1,2},? \d{2,4})([ T].*)?$`)
)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// DetectLayout returns the first candidate layout that parses more than
// threshold of the non-empty sample values.
func DetectLayout(sample []string, threshold float64) (string, bool) {
	values := nonEmpty(sample)
	if len(values) == 0 {
		return "", false
	}

	for _, layout := range CandidateLayouts {
		parsed := 0
		for _, v := range values {
			if _, err := time.Parse(layout, v); err == nil {
				parsed++
			}
		}
		if float64(parsed)/float64(len(values)) > threshold {
			return layout, true
		}
	}
	return "", false
}

// ParseWithLayout parses a value with a single layout. Rejected values are absent.
func ParseWithLayout(raw, layout string) models.DateResult {
	s := CleanDateString(raw)
	if s == "" {
		return absent()
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return absent()
	}
	return parsed(t)
}

// ParsePermissive parses a value in any format dateparse understands, in UTC.
func ParsePermissive(raw string) models.DateResult {
	s := CleanDateString(raw)
	if s == "" {
		return absent()
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return absent()
	}
	return parsed(t)
}

// ParseColumn coerces a whole column. The layout is detected on the sample;
// without a winner every value goes through ParsePermissive.
// It returns the layout that was used, or "" for the permissive path.
func ParseColumn(values, sample []string, threshold float64) ([]models.DateResult, string) {
	layout, ok := DetectLayout(sample, threshold)

	results := make([]models.DateResult, len(values))
	for i, v := range values {
		if ok {
			results[i] = ParseWithLayout(v, layout)
		} else {
			results[i] = ParsePermissive(v)
		}
	}
	return results, layout
}

// LooksLikeDate reports whether a cell has the shape of a calendar date.
func LooksLikeDate(value string) bool {
	return dateShape.MatchString(CleanDateString(value))
}

// LooksLikeDateColumn reports whether more than threshold of the non-empty
// sample values look like dates.
func LooksLikeDateColumn(sample []string, threshold float64) bool {
	values := nonEmpty(sample)
	if len(values) == 0 {
		return false
	}
	matched := 0
	for _, v := range values {
		if LooksLikeDate(v) {
			matched++
		}
	}
	return float64(matched)/float64(len(values)) > threshold
}

// FormatDate formats a date with the given layout, DateLayoutISO when empty.
// Absent dates format as an empty string.
func FormatDate(date time.Time, layout string) string {
	if date.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := CleanDateString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parsed truncates to a UTC calendar date.
func parsed(t time.Time) models.DateResult {
	y, m, d := t.Date()
	return models.DateResult{
		Value:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Status: models.StatusParsed,
	}
}

func absent() models.DateResult {
	return models.DateResult{Status: models.StatusDefaulted}
}
