// Package currencyutils provides amount coercion and formatting used throughout the application.
package currencyutils

import (
	"regexp"
	"strings"

	"fjacquet/finance-summary/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	// Leading or trailing currency symbols and ISO codes, e.g. "$12", "12 €", "USD 12".
	currencyPattern = regexp.MustCompile(`^[\s$€£¥₣₹₽₩]*(?:[A-Z]{3}\s+)?|(?:\s+[A-Z]{3})?[\s$€£¥₣₹₽₩]*$`)
	// Separators that never carry a decimal meaning in the supported exports.
	separatorReplacer = strings.NewReplacer(",", "", "'", "", " ", "", "\u00a0", "")
	// Plain decimal notation only; exponents are rejected.
	plainDecimal = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)$`)
)

// CleanAmount coerces a raw cell into a signed decimal.
// Blank and unparseable values degrade to zero with a defaulted status.
// Values wrapped in parentheses are accounting negatives.
func CleanAmount(raw string) models.AmountResult {
	s := strings.TrimSpace(raw)
	if s == "" {
		return defaulted()
	}

	s = StandardizeAmount(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		s = StandardizeAmount(s)
		negative = true
	}
	if !plainDecimal.MatchString(s) {
		return defaulted()
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return defaulted()
	}
	if negative {
		value = value.Abs().Neg()
	}

	return models.AmountResult{Value: value, Status: models.StatusParsed}
}

// StandardizeAmount strips currency markers and thousands separators so the
// result can be handed to decimal.NewFromString.
// Handles patterns like "$1,234.56", "USD 1,234.56", "1'234.56 €".
func StandardizeAmount(amountStr string) string {
	s := strings.TrimSpace(amountStr)
	s = currencyPattern.ReplaceAllString(strings.ToUpper(s), "")
	s = separatorReplacer.Replace(s)
	// "$-5" and "-$5" both end up as "-5"
	if strings.HasPrefix(s, "-") {
		s = "-" + currencyPattern.ReplaceAllString(s[1:], "")
	}
	return s
}

// CombineDebitCredit builds a signed amount from split debit and credit cells.
// The sign of each side is ignored: credits add, debits subtract.
// The result is defaulted only when neither side could be parsed.
func CombineDebitCredit(debit, credit models.AmountResult) models.AmountResult {
	if debit.Defaulted() && credit.Defaulted() {
		return defaulted()
	}
	return models.AmountResult{
		Value:  credit.Value.Abs().Sub(debit.Value.Abs()),
		Status: models.StatusParsed,
	}
}

// FormatAmount formats a decimal with two decimals and thousands separators,
// prefixed with the currency when one is given.
// Returns strings like "1,234.56", "$1,234.56" or "CHF 1,234.56".
func FormatAmount(amount decimal.Decimal, currency string) string {
	f, _ := amount.Round(2).Float64()
	formatted := humanize.FormatFloat("#,###.##", f)

	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "USD":
		return prefixSymbol("$", formatted)
	case "EUR":
		return prefixSymbol("€", formatted)
	case "GBP":
		return prefixSymbol("£", formatted)
	default:
		return currency + " " + formatted
	}
}

func prefixSymbol(symbol, formatted string) string {
	if strings.HasPrefix(formatted, "-") {
		return "-" + symbol + formatted[1:]
	}
	return symbol + formatted
}

func defaulted() models.AmountResult {
	return models.AmountResult{Value: decimal.Zero, Status: models.StatusDefaulted}
}
